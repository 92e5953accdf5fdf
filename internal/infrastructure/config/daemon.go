package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// gRPC server address for the goal service (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// HTTP display API address (host:port); empty disables the API
	HTTPAddress string `mapstructure:"http_address"`

	// Origins allowed to call the HTTP API from a browser; empty allows any
	CORSOrigins []string `mapstructure:"cors_origins"`

	// PID file enforcing a single daemon per host; empty disables it
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"positive_duration"`
}
