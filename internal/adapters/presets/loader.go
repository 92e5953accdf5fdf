package presets

import (
	"fmt"
	"os"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
	"github.com/pelletier/go-toml/v2"
)

// File is the custom presets file layout
type File struct {
	Presets []PresetEntry `toml:"preset"`
}

// PresetEntry declares one custom preset
type PresetEntry struct {
	ID        string              `toml:"id"`
	Label     string              `toml:"label"`
	LabelItem string              `toml:"label_item"`
	ScaleItem string              `toml:"scale_item"`
	Scope     string              `toml:"scope"`
	Parts     []config.PartConfig `toml:"part"`
}

// Parse decodes a custom presets TOML document
func Parse(data []byte) ([]goal.PresetDefinition, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	defs := make([]goal.PresetDefinition, 0, len(file.Presets))
	for _, entry := range file.Presets {
		defs = append(defs, goal.PresetDefinition{
			ID:        entry.ID,
			Label:     entry.Label,
			Parts:     toCounts(entry.Parts),
			ScaleItem: goods.ItemType(entry.ScaleItem),
			Scope:     goal.ColonistScope(entry.Scope),
			LabelItem: goods.ItemType(entry.LabelItem),
		})
	}
	return defs, nil
}

// Load builds the built-in presets from configuration, then the custom file's
// presets. A custom preset reusing a built-in ID replaces it.
func Load(cfg config.PresetsConfig) ([]*goal.Goal, error) {
	defs := goal.DefaultPresetDefinitions(goal.ShipPresetParams{
		ReactorItem: goods.ItemType(cfg.ReactorItem),
		CasketItem:  goods.ItemType(cfg.CasketItem),
		ShipParts:   toCounts(cfg.ShipParts),
	})

	if cfg.File != "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read presets %s: %w", cfg.File, err)
		}
		custom, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("presets %s: %w", cfg.File, err)
		}
		defs = append(defs, custom...)
	}

	goals, err := goal.BuildPresets(defs)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func toCounts(parts []config.PartConfig) []goods.ThingCount {
	counts := make([]goods.ThingCount, 0, len(parts))
	for _, p := range parts {
		counts = append(counts, goods.NewThingCount(goods.ItemType(p.Item), p.Count))
	}
	return counts
}
