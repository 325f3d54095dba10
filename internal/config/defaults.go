package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the hardcoded engine configuration.
// It mirrors defaults/engine.yaml and is used if the embedded file cannot be parsed.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Physics: PhysicsConfig{
			Gravity:              -30,
			MaxContactIterations: 3,
			TickRate:             60,
			WalkSpeed:            6,
			JumpSpeed:            11,
		},
		World: WorldConfig{
			Origin:   [2]float64{-64, -64},
			Extent:   [2]float64{128, 128},
			CellSize: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.isoworld/isoworld.log",
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 3600,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.5,
				SightMultiplier: 0.5,
			},
		},
	}
}
