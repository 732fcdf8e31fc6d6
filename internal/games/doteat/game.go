// Package doteat hosts a maze level: it owns the flowers and the score,
// drives the player and the wolves at their own cadence and decides when a
// level is lost, cleared or won.
package doteat

import (
	"math"
	"math/rand"
	"sync"

	"github.com/vovakirdan/doteat/internal/actor"
	"github.com/vovakirdan/doteat/internal/config"
	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/levels"
	"github.com/vovakirdan/doteat/internal/maze"
	"github.com/vovakirdan/doteat/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

const (
	// Game IDs used by the registry and the score store.
	IDCampaign = "doteat"
	IDEndless  = "doteat_endless"

	defaultTickRate = 60
)

// Options configures a game. The zero value means "use the package
// defaults set with Configure".
type Options struct {
	Config config.DoteatConfig
	Levels []levels.Level
}

// DefaultOptions returns the embedded configuration and built-in levels.
func DefaultOptions() Options {
	return Options{
		Config: config.DefaultDoteatConfig(),
		Levels: levels.Builtin(),
	}
}

var (
	optsMu      sync.RWMutex
	packageOpts *Options
)

// Configure sets the options used by games created through the registry.
func Configure(opts Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	packageOpts = &opts
}

func currentOptions() Options {
	optsMu.RLock()
	o := packageOpts
	optsMu.RUnlock()

	if o == nil {
		return DefaultOptions()
	}
	if len(o.Levels) == 0 {
		return Options{Config: o.Config, Levels: levels.Builtin()}
	}
	return *o
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New(ModeCampaign)
	})
	registry.Register(IDEndless, func() registry.Game {
		return New(ModeEndless)
	})
}

// Game implements registry.Game and actor.World.
type Game struct {
	mode    Mode
	opts    *Options
	runtime core.RuntimeConfig

	cfg        config.DoteatConfig
	difficulty *config.DifficultyManager
	levels     []levels.Level
	startLevel int
	levelIndex int

	rng      *rand.Rand
	tick     uint64
	tickRate int
	score    int

	grid    *maze.Grid
	flowers map[maze.TilePosition]bool
	player  *actor.Player
	enemies []*actor.Enemy

	playerEvery  int
	playerTicker int
	enemyEvery   int
	enemyTickers []int

	screenW, screenH int
	board            core.Rect

	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
}

// New creates a game that reads its options from Configure at Reset time.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// NewWithOptions creates a game with its own options.
func NewWithOptions(mode Mode, opts Options) *Game {
	if len(opts.Levels) == 0 {
		opts.Levels = levels.Builtin()
	}
	return &Game{mode: mode, opts: &opts}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Doteat (Endless)"
	}
	return "Doteat"
}

// Reset initializes/restarts the game. cfg.Level selects the first level by
// ID; unknown or empty IDs start from the first level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	opts := currentOptions()
	if g.opts != nil {
		opts = *g.opts
	}

	g.runtime = cfg
	g.cfg = opts.Config
	g.levels = opts.Levels
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = defaultTickRate
	}
	g.tick = 0
	g.score = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.startLevel = max(0, levels.Index(g.levels, cfg.Level))
	g.levelIndex = g.startLevel
	g.loadLevel()
}

// Level returns the level currently played.
func (g *Game) Level() levels.Level {
	return g.levels[g.levelIndex%len(g.levels)]
}

// cycle is the number of completed passes over the level list.
func (g *Game) cycle() int {
	return g.levelIndex / len(g.levels)
}

// loadLevel builds the grid of the current level, lays out flowers and
// spawns every character.
func (g *Game) loadLevel() {
	lvl := g.Level()
	grid, err := lvl.Grid()
	if err != nil {
		grid = maze.NewGrid(nil)
	}
	g.grid = grid
	g.levelCleared = false
	g.levelClearTicks = 0

	g.flowers = make(map[maze.TilePosition]bool)
	for _, p := range grid.Positions(maze.TileType.IsStraight) {
		g.flowers[p] = true
	}

	g.player = actor.NewPlayer(g, lvl.PlayerStart())
	g.player.Start()

	starts := lvl.EnemyStarts(grid, g.cfg.Enemies.Count)
	g.enemies = make([]*actor.Enemy, len(starts))
	g.enemyTickers = make([]int, len(starts))
	for i, p := range starts {
		rng := actor.NewRandomSource(g.rng.Int63())
		g.enemies[i] = actor.NewEnemy(actor.CharacterID(i+1), g, p, rng)
		g.enemies[i].Start()
	}

	g.playerEvery = g.ticksFor(g.cfg.Movement.PlayerInterval)
	g.playerTicker = 0
	g.enemyEvery = g.enemyInterval()

	g.layout()
}

// ticksFor converts seconds into host ticks, at least one.
func (g *Game) ticksFor(seconds float64) int {
	return max(1, int(math.Round(seconds*float64(g.tickRate))))
}

// enemyInterval returns the current wolf step interval in ticks. Wolves get
// faster with difficulty and with every endless cycle.
func (g *Game) enemyInterval() int {
	base := g.cfg.Movement.EnemyInterval
	if g.mode == ModeEndless {
		base *= math.Pow(g.cfg.Enemies.EndlessSpeedup, float64(g.cycle()))
	}
	seconds := g.difficulty.Interval(base, g.cfg.Enemies.MinInterval, g.score, int(g.tick))
	return g.ticksFor(seconds)
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && (g.gameOver || g.won) {
		restart := g.runtime
		restart.Seed = g.rng.Int63()
		if len(g.levels) > 0 {
			restart.Level = g.levels[g.startLevel].ID
		}
		g.Reset(restart)
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}

	if g.gameOver || g.won || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.ticksFor(g.cfg.Movement.LevelPause) {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	g.processInput(input)

	g.playerTicker++
	if g.playerTicker >= g.playerEvery {
		g.playerTicker = 0
		g.player.Tick()
	}

	g.enemyEvery = g.enemyInterval()
	for i, e := range g.enemies {
		if g.gameOver || g.levelCleared {
			break
		}
		g.enemyTickers[i]++
		if g.enemyTickers[i] >= g.enemyEvery {
			g.enemyTickers[i] = 0
			e.Tick()
		}
	}

	return core.StepResult{State: g.State()}
}

// processInput turns actions and pointer presses into player intents.
func (g *Game) processInput(input core.InputFrame) {
	switch {
	case input.Has(core.ActionUp):
		g.SetIntent(maze.Up)
	case input.Has(core.ActionDown):
		g.SetIntent(maze.Down)
	case input.Has(core.ActionLeft):
		g.SetIntent(maze.Left)
	case input.Has(core.ActionRight):
		g.SetIntent(maze.Right)
	case input.Has(core.ActionStop):
		g.SetIntent(maze.None)
	}

	if p := input.Pointer; p != nil && g.board.Contains(p.X, p.Y) {
		dx, dy := g.pointerOffset(p.X, p.Y)
		g.SetIntent(actor.PointerIntent(dx, dy, g.cfg.Input.PointerDeadzone))
	}
}

// SetIntent forwards a direction to the player. It reports whether the
// player accepted it; nothing is accepted once the game has ended.
func (g *Game) SetIntent(d maze.Direction) bool {
	if g.player == nil || g.gameOver || g.won || g.levelCleared {
		return false
	}
	return g.player.SetIntent(d)
}

// advanceLevel moves to the next level, or ends a finished campaign.
func (g *Game) advanceLevel() {
	g.levelIndex++
	if g.mode == ModeCampaign && g.levelIndex >= len(g.levels) {
		g.levelIndex = len(g.levels) - 1
		g.levelCleared = false
		g.won = true
		return
	}
	g.loadLevel()
}

// stopAll makes every character idle.
func (g *Game) stopAll() {
	g.player.Stop()
	for _, e := range g.enemies {
		e.Stop()
	}
}

// TileAt implements actor.World.
func (g *Game) TileAt(p maze.TilePosition) (maze.TileType, bool) {
	return g.grid.TileAt(p)
}

// CharacterMoved implements actor.World. A wolf sharing the player's tile
// ends the game.
func (g *Game) CharacterMoved(id actor.CharacterID, p maze.TilePosition) {
	if g.gameOver {
		return
	}
	caught := false
	if id == actor.PlayerID {
		for _, e := range g.enemies {
			if e.Position() == p {
				caught = true
				break
			}
		}
	} else {
		caught = g.player.Position() == p
	}
	if caught {
		g.gameOver = true
		g.stopAll()
	}
}

// ItemCollected implements actor.World.
func (g *Game) ItemCollected(p maze.TilePosition) {
	if g.gameOver || !g.flowers[p] {
		return
	}
	delete(g.flowers, p)
	g.score++

	if len(g.flowers) == 0 {
		g.levelCleared = true
		g.levelClearTicks = 0
		g.stopAll()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.won,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// FlowersLeft returns the number of flowers still on the current level.
func (g *Game) FlowersLeft() int {
	return len(g.flowers)
}
