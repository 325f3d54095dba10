// Package registry keeps track of the scenes the CLI and TUI can start.
// Scenes register themselves in init() or when a scene directory is
// loaded, so the platform never imports a concrete scene.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/isoworld/internal/core"
)

// Game is the interface every playable scene implements.
// Scenes contain pure simulation logic with no Bubble Tea dependency.
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier (e.g., "courtyard").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset builds the scene from scratch.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current scene state (score, game over, paused).
	State() core.GameState
}

// SourceBuiltin marks scenes compiled into the binary.
const SourceBuiltin = "builtin"

// SceneInfo describes a registered scene without instantiating it.
type SceneInfo struct {
	ID          string
	Title       string
	Description string
	// Source is SourceBuiltin or the directory the scene was loaded from.
	Source string
}

// Factory creates a fresh, un-reset scene.
type Factory func() Game

type entry struct {
	info    SceneInfo
	factory Factory
}

// ErrDuplicate is returned when a scene ID is registered twice.
var ErrDuplicate = errors.New("registry: scene already registered")

var (
	mu     sync.RWMutex
	scenes = make(map[string]entry)
)

// Register adds a scene. An empty Title is filled from the scene itself.
// A directory scene cannot shadow a built-in one: registering an existing
// ID fails with ErrDuplicate.
func Register(info SceneInfo, f Factory) error {
	if info.ID == "" {
		return errors.New("registry: scene without ID")
	}
	if f == nil {
		return fmt.Errorf("registry: scene %q has no factory", info.ID)
	}
	if info.Title == "" {
		info.Title = f().Title()
	}
	if info.Source == "" {
		info.Source = SourceBuiltin
	}

	mu.Lock()
	defer mu.Unlock()

	if prev, exists := scenes[info.ID]; exists {
		return fmt.Errorf("%w: %q (from %s)", ErrDuplicate, info.ID, prev.info.Source)
	}
	scenes[info.ID] = entry{info: info, factory: f}
	return nil
}

// List returns every registered scene, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(scenes))
	for _, e := range scenes {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the metadata of a registered scene.
func Lookup(id string) (SceneInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := scenes[id]
	return e.info, ok
}

// Create instantiates a new scene by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := scenes[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether a scene with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
