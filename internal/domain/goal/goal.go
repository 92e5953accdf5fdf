package goal

import (
	"sync/atomic"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// Goal is a set of target quantities of top-level parts.
// The base parts never change; the effective targets and the deficit are
// derived values replaced wholesale on every recompute.
type Goal struct {
	id    string
	label string
	parts []goods.ThingCount
	rule  ReevaluationRule

	// labelItem and labelScope describe the live count shown next to the label
	labelItem  goods.ItemType
	labelScope ColonistScope

	targets atomic.Pointer[[]goods.ThingCount]
	deficit atomic.Pointer[Deficit]
}

// NewGoal creates a goal; rule may be nil for fixed targets
func NewGoal(id, label string, parts []goods.ThingCount, rule ReevaluationRule) *Goal {
	g := &Goal{
		id:    id,
		label: label,
		parts: copyCounts(parts),
		rule:  rule,
	}
	targets := copyCounts(parts)
	g.targets.Store(&targets)
	empty := NewDeficit(nil)
	g.deficit.Store(&empty)
	return g
}

func (g *Goal) ID() string    { return g.id }
func (g *Goal) Label() string { return g.label }

// WithLabelItem marks the item whose live count selection surfaces show next to
// the label. An empty scope shows the target count; a colonist scope shows the
// colonist count. Call only while building the goal.
func (g *Goal) WithLabelItem(item goods.ItemType, scope ColonistScope) *Goal {
	g.labelItem = item
	g.labelScope = scope
	return g
}

// LabelItem returns the item and scope used for label counts
func (g *Goal) LabelItem() (goods.ItemType, ColonistScope) {
	return g.labelItem, g.labelScope
}

// HasRule returns true if the goal re-evaluates its targets before each recompute
func (g *Goal) HasRule() bool {
	return g.rule != nil
}

// Rule returns the goal's re-evaluation rule, nil for fixed targets
func (g *Goal) Rule() ReevaluationRule {
	return g.rule
}

// Parts returns a copy of the base parts
func (g *Goal) Parts() []goods.ThingCount {
	return copyCounts(g.parts)
}

// Targets returns a copy of the current effective targets
func (g *Goal) Targets() []goods.ThingCount {
	return copyCounts(*g.targets.Load())
}

// Target returns the current effective target for an item, 0 if not a part
func (g *Goal) Target(item goods.ItemType) int {
	for _, t := range *g.targets.Load() {
		if t.Item == item {
			return t.Count
		}
	}
	return 0
}

// Reevaluate runs the goal's rule against the world state and publishes new targets.
// Goals without a rule keep their base parts.
func (g *Goal) Reevaluate(state inventory.WorldState) {
	if g.rule == nil {
		return
	}
	targets := g.rule(state, copyCounts(g.parts))
	g.targets.Store(&targets)
}

// Deficit returns the last published deficit
func (g *Goal) Deficit() Deficit {
	return *g.deficit.Load()
}

// PublishDeficit replaces the goal's deficit
func (g *Goal) PublishDeficit(d Deficit) {
	g.deficit.Store(&d)
}

func copyCounts(counts []goods.ThingCount) []goods.ThingCount {
	result := make([]goods.ThingCount, len(counts))
	copy(result, counts)
	return result
}
