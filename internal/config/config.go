// Package config provides YAML-based engine configuration loading and
// difficulty management for the sample scenes.
package config

import "fmt"

// EngineConfig contains all configuration for the simulation core.
type EngineConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	World      WorldConfig      `yaml:"world"`
	Logging    LoggingConfig    `yaml:"logging"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines integrator parameters.
type PhysicsConfig struct {
	Gravity              float64 `yaml:"gravity"`                // Acceleration on Z in units/s² (negative = down)
	MaxContactIterations int     `yaml:"max_contact_iterations"` // Contacts resolved per actor per frame
	TickRate             int     `yaml:"tick_rate"`              // Fixed simulation ticks per second
	WalkSpeed            float64 `yaml:"walk_speed"`             // Player ground speed in units/s
	JumpSpeed            float64 `yaml:"jump_speed"`             // Initial upward velocity of a jump
}

// WorldConfig defines the bounds and granularity of the spatial index.
type WorldConfig struct {
	Origin   [2]float64 `yaml:"origin"`    // World X/Y of the grid's first cell
	Extent   [2]float64 `yaml:"extent"`    // Grid size in world units along X/Y
	CellSize float64    `yaml:"cell_size"` // Edge of one broad-phase cell in world units
}

// LoggingConfig controls the charmbracelet logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file used while the TUI owns the terminal
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to patrol speed at max difficulty
	SightMultiplier float64 `yaml:"sight_multiplier"` // Multiplier added to guard sight range at max difficulty
}

// Validate checks the values the simulation cannot run without.
func (c EngineConfig) Validate() error {
	if c.Physics.MaxContactIterations <= 0 {
		return fmt.Errorf("config: max_contact_iterations must be positive, got %d", c.Physics.MaxContactIterations)
	}
	if c.Physics.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.Physics.TickRate)
	}
	if c.World.CellSize <= 0 {
		return fmt.Errorf("config: cell_size must be positive, got %g", c.World.CellSize)
	}
	if c.World.Extent[0] <= 0 || c.World.Extent[1] <= 0 {
		return fmt.Errorf("config: world extent must be positive, got %v", c.World.Extent)
	}
	return nil
}

// StepSeconds returns the fixed timestep.
func (c PhysicsConfig) StepSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *EngineConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
