package config

import "math"

// DifficultyManager ramps guard behavior from the initial level to full
// difficulty as a run progresses, measured in score or elapsed ticks.
type DifficultyManager struct {
	cfg     DifficultyConfig
	initial float64
}

// NewDifficultyManager creates a difficulty manager for one run.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:     cfg,
		initial: clampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// progress returns how far the run is along the progression axis, in [0, 1].
func (d *DifficultyManager) progress(score, ticks int) float64 {
	maxAt := math.Max(float64(d.cfg.Progression.MaxAt), 1)
	switch d.cfg.Progression.Type {
	case "score":
		return clampF(float64(score)/maxAt, 0, 1)
	case "time":
		return clampF(float64(ticks)/maxAt, 0, 1)
	}
	return 0
}

// Level returns the difficulty level in [initial, 1].
func (d *DifficultyManager) Level(score, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initial
	}
	return d.initial + d.progress(score, ticks)*(1-d.initial)
}

// Speed scales a patrol speed, reaching base * (1 + speed_multiplier) at
// full difficulty.
func (d *DifficultyManager) Speed(base float64, score, ticks int) float64 {
	return base * (1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// Sight scales a guard's sight range the same way with sight_multiplier.
func (d *DifficultyManager) Sight(base float64, score, ticks int) float64 {
	return base * (1 + d.Level(score, ticks)*d.cfg.Scaling.SightMultiplier)
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
