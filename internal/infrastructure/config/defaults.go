package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "goaltracker.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "goaltracker"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "goaltracker"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 5
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Registry defaults
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/registry.yaml"
	}
	if cfg.Registry.Debounce == 0 {
		cfg.Registry.Debounce = 500 * time.Millisecond
	}

	// Tracker defaults
	if cfg.Tracker.Instance == "" {
		cfg.Tracker.Instance = "default"
	}
	if cfg.Tracker.TickInterval == 0 {
		// Matches the cadence of the game's resource counter
		cfg.Tracker.TickInterval = 3400 * time.Millisecond
	}
	if cfg.Tracker.WorldPath == "" {
		cfg.Tracker.WorldPath = "configs/world.yaml"
	}
	if cfg.Tracker.TriggerRate == 0 {
		cfg.Tracker.TriggerRate = 1
	}
	if cfg.Tracker.TriggerBurst == 0 {
		cfg.Tracker.TriggerBurst = 3
	}

	// Preset defaults
	if cfg.Presets.Default == "" {
		cfg.Presets.Default = "reactor"
	}
	if cfg.Presets.ReactorItem == "" {
		cfg.Presets.ReactorItem = "Ship_Reactor"
	}
	if cfg.Presets.CasketItem == "" {
		cfg.Presets.CasketItem = "Ship_CryptosleepCasket"
	}
	if len(cfg.Presets.ShipParts) == 0 {
		cfg.Presets.ShipParts = []PartConfig{
			{Item: "Ship_ComputerCore", Count: 1},
			{Item: "Ship_CryptosleepCasket", Count: 1},
			{Item: "Ship_Reactor", Count: 1},
			{Item: "Ship_Engine", Count: 3},
			{Item: "Ship_SensorCluster", Count: 1},
		}
	}

	// Daemon defaults
	if cfg.Daemon.Address == "" {
		cfg.Daemon.Address = "localhost:50062"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/goaltracker-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
