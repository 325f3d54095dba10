package scene

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/logging"
	"github.com/vovakirdan/isoworld/internal/physics"
	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/world"
)

// Scene states
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
	StateWon      = "won"
)

// Points per collected pickup.
const pickupPoints = 10

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives simulation logs; nil means the charmbracelet default.
var logger *log.Logger

// SetConfigPath sets the custom engine config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// SetLogger routes simulation logs.
func SetLogger(l *log.Logger) {
	logger = l
}

// Game runs one scene definition through collision and physics.
type Game struct {
	def     Definition
	runtime core.RuntimeConfig
	cfg     config.EngineConfig
	log     *log.Logger

	world      *world.World
	collisions *collision.Collisions
	physics    *physics.Physics
	difficulty *config.DifficultyManager

	player    *world.Object
	guards    []*guard
	platforms []*platform

	pickupsTotal int
	tick         uint64
	score        int
	state        string
	cause        string
	contacts     int

	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a game for the definition. Call Reset before stepping.
func New(def Definition) *Game {
	return &Game{def: def}
}

// ID returns the scene ID.
func (g *Game) ID() string {
	return g.def.ID
}

// Title returns the scene name.
func (g *Game) Title() string {
	return g.def.Name
}

// Definition returns the scene definition the game was built from.
func (g *Game) Definition() Definition {
	return g.def
}

// Reset rebuilds the world from the definition.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.log = logging.OrDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		g.log.Warn("falling back to default engine config", "error", err)
		cfg = config.DefaultEngineConfig()
	}
	config.ApplyPreset(&cfg, difficultyPreset)
	g.ResetWithConfig(runtime, cfg)
}

// ResetWithConfig rebuilds the world using an explicit engine config.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.EngineConfig) {
	g.runtime = runtime
	g.cfg = cfg
	g.log = logging.OrDefault(logger)
	if runtime.TickRate <= 0 {
		g.runtime.TickRate = cfg.Physics.TickRate
	}

	g.world = world.New(cfg.World, g.log)
	g.collisions = collision.New(g.world, g.log)
	g.physics = physics.New(g.world, g.collisions, cfg.Physics, g.log)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.def.Build(g.world)
	g.bindActors()

	g.tick = 0
	g.score = 0
	g.contacts = 0
	g.state = StatePlaying
	g.cause = ""

	g.minScreenW = 30
	g.minScreenH = 12
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.log.Debug("scene reset", "scene", g.def.ID, "objects", g.world.Len(), "pickups", g.pickupsTotal)
}

// bindActors resolves role-specific controllers for the spawned actors.
func (g *Game) bindActors() {
	g.player = nil
	g.guards = g.guards[:0]
	g.platforms = g.platforms[:0]
	g.pickupsTotal = 0

	var rng *rand.Rand
	if g.runtime.Seed != 0 {
		rng = rand.New(rand.NewSource(g.runtime.Seed))
	}

	for _, a := range g.def.Actors {
		o, ok := g.world.FindByName(a.Name)
		if !ok {
			continue
		}
		switch a.Role {
		case RolePlayer:
			g.player = o
		case RoleGuard:
			axis, _ := parseAxis(a.Patrol.Axis)
			g.guards = append(g.guards, &guard{
				obj:   o,
				axis:  axis,
				dir:   startDir(rng),
				speed: a.Patrol.Speed,
				sight: a.Patrol.Sight,
			})
		case RolePlatform:
			axis, _ := parseAxis(a.Path.Axis)
			g.platforms = append(g.platforms, &platform{
				obj:   o,
				axis:  axis,
				from:  a.Path.From,
				to:    a.Path.To,
				speed: a.Path.Speed,
				dir:   startDir(rng),
			})
		case RolePickup:
			g.pickupsTotal++
		}
	}
}

// startDir picks the initial travel direction of a patrol or path.
// Without a seed every actor starts out along the positive axis.
func startDir(rng *rand.Rand) float64 {
	if rng == nil || rng.Intn(2) == 0 {
		return 1
	}
	return -1
}

// Step advances the scene by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && (g.state == StateGameOver || g.state == StateWon) {
		g.ResetWithConfig(g.runtime, g.cfg)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePlaying:
			g.state = StatePaused
		case StatePaused:
			g.state = StatePlaying
		}
	}

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.collisions.Update()

	g.controlPlayer(in)
	for _, gd := range g.guards {
		g.updateGuard(gd)
	}
	for _, p := range g.platforms {
		p.update()
	}

	g.physics.Update(g.runtime.StepSeconds())
	g.contacts = g.physics.Stats().Contacts

	g.collectPickups()
	g.checkEnd()

	return core.StepResult{State: g.State(), Contacts: g.contacts}
}

// checkEnd decides whether the run is over.
func (g *Game) checkEnd() {
	if g.player == nil {
		return
	}
	if g.player.Position()[2] < g.def.KillZ {
		g.end(StateGameOver, "fell off the world")
		return
	}
	for _, gd := range g.guards {
		if g.touching(g.player, gd.obj) {
			g.end(StateGameOver, fmt.Sprintf("caught by %s", gd.obj.Name()))
			return
		}
		if g.spotted(gd) {
			g.end(StateGameOver, fmt.Sprintf("spotted by %s", gd.obj.Name()))
			return
		}
	}
	if g.pickupsTotal > 0 && g.remainingPickups() == 0 {
		g.end(StateWon, "all pickups collected")
	}
}

func (g *Game) end(state, cause string) {
	g.state = state
	g.cause = cause
	g.log.Info("scene ended", "scene", g.def.ID, "state", state, "cause", cause, "tick", g.tick, "score", g.score)
}

// touching reports whether either actor recorded a contact with the other
// this frame.
func (g *Game) touching(a, b *world.Object) bool {
	for _, col := range g.collisions.Current(a) {
		if col.Other.ID() == b.ID() {
			return true
		}
	}
	for _, col := range g.collisions.Current(b) {
		if col.Other.ID() == a.ID() {
			return true
		}
	}
	return false
}

// collectPickups removes every pickup the player touched this frame,
// either along its swept path or by resting inside it.
func (g *Game) collectPickups() {
	if g.player == nil {
		return
	}

	seen := make(map[uint64]bool)
	var touched []collision.Collidable
	for _, col := range g.collisions.Current(g.player) {
		touched = append(touched, col.Other)
	}
	if box, ok := g.player.CollisionBox(); ok {
		for _, col := range g.collisions.CheckBox(box) {
			touched = append(touched, col.Other)
		}
	}

	for _, c := range touched {
		o, ok := c.(*world.Object)
		if !ok || seen[o.ID()] || !o.Valid() || !o.HasTag(RolePickup) {
			continue
		}
		seen[o.ID()] = true
		g.score += pickupPoints
		g.log.Debug("pickup collected", "name", o.Name(), "score", g.score)
		g.world.Remove(o)
	}
}

func (g *Game) remainingPickups() int {
	return len(g.world.FindByTag(RolePickup))
}

// State returns the platform-facing state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state == StateGameOver || g.state == StateWon,
		Won:      g.state == StateWon,
		Paused:   g.state == StatePaused,
	}
}

// Cause returns why the run ended, or "" while it is running.
func (g *Game) Cause() string {
	return g.cause
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() uint64 {
	return g.tick
}

// World exposes the simulated world for inspection.
func (g *Game) World() *world.World {
	return g.world
}

// RegisterBuiltin registers every embedded scene.
func RegisterBuiltin() error {
	defs, err := BuiltinLoader().LoadAll()
	if err != nil {
		return err
	}
	return registerAll(defs, registry.SourceBuiltin)
}

// RegisterDir registers every scene found under root. Scenes whose ID is
// already registered are reported as an error.
func RegisterDir(root string) error {
	defs, err := NewLoader(root).LoadAll()
	if err != nil {
		return err
	}
	return registerAll(defs, root)
}

func registerAll(defs []Definition, source string) error {
	for _, def := range defs {
		def := def
		info := registry.SceneInfo{
			ID:          def.ID,
			Title:       def.Name,
			Description: def.Description,
			Source:      source,
		}
		err := registry.Register(info, func() registry.Game {
			return New(def)
		})
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	return nil
}

func init() {
	if err := RegisterBuiltin(); err != nil {
		panic(err)
	}
}
