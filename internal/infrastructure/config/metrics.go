package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path of the Prometheus endpoint on the daemon's HTTP API
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
