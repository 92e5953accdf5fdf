package goal

import (
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// ReevaluationRule recomputes a goal's targets from the current world state.
// Rules are pure: they receive a copy of the base parts and return new targets.
type ReevaluationRule func(state inventory.WorldState, parts []goods.ThingCount) []goods.ThingCount

// ColonistScope selects which colonists a scaling rule counts
type ColonistScope string

const (
	// ScopeMap counts free colonists spawned on the current map
	ScopeMap ColonistScope = "map"

	// ScopeAll counts every free colonist alive, including caravans and transport pods
	ScopeAll ColonistScope = "all"
)

// Count returns the colonist count for this scope
func (s ColonistScope) Count(state inventory.WorldState) int {
	if s == ScopeAll {
		return state.ColonistsTotal
	}
	return state.ColonistsOnMap
}

// ScaleWithColonists sets the target of item to one unit per colonist in scope
func ScaleWithColonists(item goods.ItemType, scope ColonistScope) ReevaluationRule {
	return func(state inventory.WorldState, parts []goods.ThingCount) []goods.ThingCount {
		count := scope.Count(state)
		for i := range parts {
			if parts[i].Item == item {
				parts[i].Count = count
				return parts
			}
		}
		return append(parts, goods.ThingCount{Item: item, Count: count})
	}
}
