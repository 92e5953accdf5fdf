package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

// Recompute triggers reported in logs and metrics
const (
	TriggerTick     = "tick"
	TriggerSwitch   = "switch"
	TriggerRegistry = "registry"
	TriggerWorld    = "world"
)

// maxSuggestionDistance bounds the edit distance of "did you mean" suggestions
const maxSuggestionDistance = 3

// PresetOption is one entry of a goal selection menu
type PresetOption struct {
	ID       string
	Label    string
	Selected bool
}

// GoalRegistry holds the presets and the single active goal.
//
// Recomputes are serialized by a mutex; readers only load atomics and never
// block on a recompute. A goal becomes active only after its deficit has been
// computed, so readers never see a freshly selected goal with an empty deficit.
type GoalRegistry struct {
	mu         sync.Mutex
	aggregator *CostAggregator
	world      inventory.WorldSource
	clock      shared.Clock

	presets []*goal.Goal
	byID    map[string]*goal.Goal

	active     atomic.Pointer[goal.Goal]
	computedAt atomic.Pointer[time.Time]
}

// NewGoalRegistry creates a registry over the presets. The default preset, or
// the first one when it is absent, is active until the first switch.
func NewGoalRegistry(
	aggregator *CostAggregator,
	world inventory.WorldSource,
	presets []*goal.Goal,
	clock shared.Clock,
) (*GoalRegistry, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("goal registry requires at least one preset")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	r := &GoalRegistry{
		aggregator: aggregator,
		world:      world,
		clock:      clock,
		presets:    presets,
		byID:       make(map[string]*goal.Goal, len(presets)),
	}
	for _, g := range presets {
		r.byID[g.ID()] = g
	}

	initial, ok := r.byID[goal.DefaultPreset]
	if !ok {
		initial = presets[0]
	}
	r.active.Store(initial)

	return r, nil
}

// Active returns the active goal
func (r *GoalRegistry) Active() *goal.Goal {
	return r.active.Load()
}

// Deficit returns the last completed deficit of the active goal
func (r *GoalRegistry) Deficit() goal.Deficit {
	return r.active.Load().Deficit()
}

// ComputedAt returns when the visible deficit was computed; zero before the first recompute
func (r *GoalRegistry) ComputedAt() time.Time {
	if t := r.computedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Mode returns the aggregation mode used for recomputes
func (r *GoalRegistry) Mode() AggregationMode {
	return r.aggregator.Mode()
}

// Presets returns the selectable goals in menu order
func (r *GoalRegistry) Presets() []*goal.Goal {
	result := make([]*goal.Goal, len(r.presets))
	copy(result, r.presets)
	return result
}

// Preset returns the preset with the given ID
func (r *GoalRegistry) Preset(id string) (*goal.Goal, bool) {
	g, ok := r.byID[id]
	return g, ok
}

// Tick re-evaluates the active goal against the current world and recomputes its deficit
func (r *GoalRegistry) Tick(ctx context.Context) goal.Deficit {
	return r.Recompute(ctx, TriggerTick)
}

// Recompute refreshes the active goal's deficit, labelling the run with its trigger
func (r *GoalRegistry) Recompute(ctx context.Context, trigger string) goal.Deficit {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.active.Load()
	return r.recompute(ctx, g, trigger)
}

// SwitchTo computes the goal's deficit and then makes it active
func (r *GoalRegistry) SwitchTo(ctx context.Context, g *goal.Goal) error {
	if g == nil {
		return fmt.Errorf("cannot switch to a nil goal")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.recompute(ctx, g, TriggerSwitch)
	previous := r.active.Swap(g)

	previousID := ""
	if previous != nil {
		previousID = previous.ID()
	}
	metrics.RecordGoalSwitch(previousID, g.ID())

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Active goal switched", map[string]interface{}{
		"from": previousID,
		"to":   g.ID(),
	})

	return nil
}

// SwitchToPreset activates the preset with the given ID. Unknown IDs return
// *goal.ErrUnknownPreset carrying the closest known ID, if any is close enough.
func (r *GoalRegistry) SwitchToPreset(ctx context.Context, id string) error {
	g, ok := r.byID[id]
	if !ok {
		return &goal.ErrUnknownPreset{ID: id, Suggestion: r.suggest(id)}
	}
	return r.SwitchTo(ctx, g)
}

// Menu returns the selection options with live counts in their labels.
// Colonist-scaled presets are listed only when their base parts include the
// scaled item; the active goal is always listed.
func (r *GoalRegistry) Menu() []PresetOption {
	active := r.active.Load()
	state := r.world.Current().WorldState()

	options := make([]PresetOption, 0, len(r.presets))
	for _, g := range r.presets {
		selected := g == active
		item, scope := g.LabelItem()

		label := g.Label()
		if item != "" {
			itemLabel := r.itemLabel(item)
			if scope == "" {
				if count := g.Target(item); count > 0 {
					label = fmt.Sprintf("%s (%d %s)", g.Label(), count, itemLabel)
				}
			} else {
				if !selected && !hasPart(g, item) {
					continue
				}
				label = fmt.Sprintf("%s (%d %s)", g.Label(), scope.Count(state), itemLabel)
			}
		}

		options = append(options, PresetOption{
			ID:       g.ID(),
			Label:    label,
			Selected: selected,
		})
	}

	return options
}

// recompute must be called with mu held
func (r *GoalRegistry) recompute(ctx context.Context, g *goal.Goal, trigger string) goal.Deficit {
	logger := common.LoggerFromContext(ctx)
	runID := uuid.New().String()
	start := r.clock.Now()

	view := r.world.Current()
	g.Reevaluate(view.WorldState())
	deficit := r.aggregator.Compute(ctx, g.Targets(), view)
	g.PublishDeficit(deficit)

	now := r.clock.Now()
	r.computedAt.Store(&now)
	duration := now.Sub(start)

	outstanding := make(map[string]int)
	for _, entry := range deficit.Outstanding() {
		outstanding[string(entry.Item)] = entry.Count
	}
	metrics.RecordRecompute(g.ID(), trigger, duration, outstanding)

	logger.Log(common.LevelDebug, "Deficit recomputed", map[string]interface{}{
		"run_id":      runID,
		"goal":        g.ID(),
		"trigger":     trigger,
		"outstanding": deficit.Total(),
		"items":       len(outstanding),
		"duration_ms": duration.Milliseconds(),
	})

	return deficit
}

func (r *GoalRegistry) suggest(id string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, g := range r.presets {
		if d := levenshtein.ComputeDistance(id, g.ID()); d < bestDistance {
			best = g.ID()
			bestDistance = d
		}
	}
	return best
}

func (r *GoalRegistry) itemLabel(item goods.ItemType) string {
	if registry := r.aggregator.index.Registry(); registry != nil {
		if def, ok := registry.Item(item); ok {
			return def.DisplayLabel()
		}
	}
	return string(item)
}

func hasPart(g *goal.Goal, item goods.ItemType) bool {
	for _, part := range g.Parts() {
		if part.Item == item && part.Count > 0 {
			return true
		}
	}
	return false
}
