package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/doteat/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"w", runeKey('w'), core.ActionUp, false},
		{"k", runeKey('k'), core.ActionUp, false},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"s", runeKey('s'), core.ActionDown, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"a", runeKey('a'), core.ActionLeft, false},
		{"h", runeKey('h'), core.ActionLeft, false},
		{"d", runeKey('d'), core.ActionRight, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionStop, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{"b", runeKey('b'), core.ActionBack, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('x'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action {
				t.Errorf("MapKey() action = %v, expected %v", action, tt.action)
			}
			if quit != tt.quit {
				t.Errorf("MapKey() quit = %v, expected %v", quit, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('d'), &frame) {
		t.Error("MapKeyToFrame() reported quit for a move key")
	}
	if !frame.Has(core.ActionRight) {
		t.Error("frame should contain ActionRight")
	}

	km.MapKeyToFrame(runeKey('x'), &frame)
	if len(frame.Actions) != 1 {
		t.Errorf("unbound key changed frame: %v", frame.Actions)
	}

	if !km.MapKeyToFrame(runeKey('q'), &frame) {
		t.Error("MapKeyToFrame() should report quit for q")
	}
}

func TestMapMouseToFrame(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name  string
		msg   tea.MouseMsg
		click bool
	}{
		{"left press", tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, true},
		{"left release", tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, false},
		{"right press", tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, false},
		{"motion", tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := core.NewInputFrame()
			got := km.MapMouseToFrame(tt.msg, &frame)
			if got != tt.click {
				t.Errorf("MapMouseToFrame() = %v, expected %v", got, tt.click)
			}
			if tt.click {
				if frame.Pointer == nil || frame.Pointer.X != 12 || frame.Pointer.Y != 5 {
					t.Errorf("Pointer = %v, expected (12,5)", frame.Pointer)
				}
			} else if frame.Pointer != nil {
				t.Errorf("Pointer = %v, expected nil", frame.Pointer)
			}
		})
	}
}
