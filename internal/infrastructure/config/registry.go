package config

import "time"

// RegistryConfig locates the item and recipe data
type RegistryConfig struct {
	// YAML file with item definitions and recipes
	Path string `mapstructure:"path" validate:"required"`

	// Reload the registry when the file changes, starting a new recipe session
	Watch bool `mapstructure:"watch"`

	// Quiet period before a change is applied; editors write files in several steps
	Debounce time.Duration `mapstructure:"debounce" validate:"min=0"`
}
