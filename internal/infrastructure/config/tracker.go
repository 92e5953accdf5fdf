package config

import "time"

// TrackerConfig controls deficit recomputation
type TrackerConfig struct {
	// Instance names this tracker in persisted state
	Instance string `mapstructure:"instance" validate:"required"`

	// DeepSum accumulates every sub-ingredient contribution instead of
	// keeping only the last one per ingredient
	DeepSum bool `mapstructure:"deep_sum"`

	// TickInterval between scheduled recomputes
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"positive_duration"`

	// YAML world snapshot file
	WorldPath string `mapstructure:"world_path" validate:"required"`

	// Reload the world snapshot when the file changes
	WatchWorld bool `mapstructure:"watch_world"`

	// Out-of-band recompute triggers per second, and their burst
	TriggerRate  float64 `mapstructure:"trigger_rate" validate:"gt=0"`
	TriggerBurst int     `mapstructure:"trigger_burst" validate:"min=1"`
}
