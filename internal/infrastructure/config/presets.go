package config

// PresetsConfig parameterizes the built-in goal presets
type PresetsConfig struct {
	// Optional TOML file with custom presets
	File string `mapstructure:"file"`

	// Preset active at startup when no saved selection exists
	Default string `mapstructure:"default" validate:"required"`

	ReactorItem string `mapstructure:"reactor_item" validate:"required"`
	CasketItem  string `mapstructure:"casket_item" validate:"required"`

	// Parts of the minimum ship
	ShipParts []PartConfig `mapstructure:"ship_parts" validate:"dive"`
}

// PartConfig is one target of a preset
type PartConfig struct {
	Item  string `mapstructure:"item" toml:"item" validate:"required"`
	Count int    `mapstructure:"count" toml:"count" validate:"min=0"`
}
