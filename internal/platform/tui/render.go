package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/doteat/internal/core"
)

// palette maps each screen role to its terminal style.
var palette = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRoad:    lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
	core.ColorFlower:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorPlayer:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorWolf:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorTree:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	core.ColorRock:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorWater:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	core.ColorFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of the same role share one styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			role := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != role {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := palette[role]
			if !ok {
				style = palette[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
