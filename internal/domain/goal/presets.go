package goal

import (
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// Built-in preset IDs
const (
	PresetReactor = "reactor"
	PresetShip    = "ship"
	PresetShipMap = "ship-map"
	PresetShipAll = "ship-all"
	DefaultPreset = PresetReactor
)

// PresetDefinition describes a selectable goal
type PresetDefinition struct {
	ID    string
	Label string
	Parts []goods.ThingCount

	// ScaleItem, when set, is re-targeted to one unit per colonist in Scope
	ScaleItem goods.ItemType
	Scope     ColonistScope

	// LabelItem is shown with its target count in labels of fixed presets
	LabelItem goods.ItemType
}

// Build validates the definition and creates its goal
func (d PresetDefinition) Build() (*Goal, error) {
	if d.ID == "" {
		return nil, &ErrInvalidPreset{ID: "(empty)", Reason: "id is required"}
	}
	if len(d.Parts) == 0 {
		return nil, &ErrInvalidPreset{ID: d.ID, Reason: "at least one part is required"}
	}
	for _, part := range d.Parts {
		if part.Item == "" {
			return nil, &ErrInvalidPreset{ID: d.ID, Reason: "part with empty item"}
		}
		if part.Count < 0 {
			return nil, &ErrInvalidPreset{ID: d.ID, Reason: fmt.Sprintf("negative target for %s", part.Item)}
		}
	}

	label := d.Label
	if label == "" {
		label = d.ID
	}

	if d.ScaleItem == "" {
		g := NewGoal(d.ID, label, d.Parts, nil)
		if d.LabelItem != "" {
			g.WithLabelItem(d.LabelItem, "")
		}
		return g, nil
	}

	switch d.Scope {
	case ScopeMap, ScopeAll:
	default:
		return nil, &ErrInvalidPreset{ID: d.ID, Reason: fmt.Sprintf("unknown colonist scope %q", d.Scope)}
	}

	g := NewGoal(d.ID, label, d.Parts, ScaleWithColonists(d.ScaleItem, d.Scope))
	return g.WithLabelItem(d.ScaleItem, d.Scope), nil
}

// ShipPresetParams names the items used by the built-in presets
type ShipPresetParams struct {
	ReactorItem goods.ItemType
	CasketItem  goods.ItemType
	ShipParts   []goods.ThingCount
}

// DefaultPresetDefinitions returns the built-in presets: the reactor alone,
// the minimum ship, and the ship sized for colonists on the map or everywhere.
func DefaultPresetDefinitions(p ShipPresetParams) []PresetDefinition {
	defs := []PresetDefinition{
		{
			ID:    PresetReactor,
			Label: "1 reactor",
			Parts: []goods.ThingCount{{Item: p.ReactorItem, Count: 1}},
		},
	}

	if len(p.ShipParts) == 0 {
		return defs
	}

	return append(defs,
		PresetDefinition{
			ID:        PresetShip,
			Label:     "ship minimum",
			Parts:     p.ShipParts,
			LabelItem: p.CasketItem,
		},
		PresetDefinition{
			ID:        PresetShipMap,
			Label:     "ship for map colonists",
			Parts:     p.ShipParts,
			ScaleItem: p.CasketItem,
			Scope:     ScopeMap,
		},
		PresetDefinition{
			ID:        PresetShipAll,
			Label:     "ship for all colonists",
			Parts:     p.ShipParts,
			ScaleItem: p.CasketItem,
			Scope:     ScopeAll,
		},
	)
}

// BuildPresets builds goals from definitions; later IDs replace earlier ones in place
func BuildPresets(defs []PresetDefinition) ([]*Goal, error) {
	goals := make([]*Goal, 0, len(defs))
	position := make(map[string]int, len(defs))

	for _, def := range defs {
		g, err := def.Build()
		if err != nil {
			return nil, err
		}
		if i, exists := position[g.ID()]; exists {
			goals[i] = g
			continue
		}
		position[g.ID()] = len(goals)
		goals = append(goals, g)
	}

	return goals, nil
}
