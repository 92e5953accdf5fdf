package helpers

import (
	"sync"
	"testing"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

// ShipRegistry is a small ship registry: the reactor and the casket both
// cost Steel directly, and both components are crafted from Steel.
func ShipRegistry() *goods.StaticRegistry {
	return goods.NewStaticRegistry(
		[]*goods.ItemDef{
			{Type: "Steel", Label: "steel", CountAsResource: true},
			{Type: "Plasteel", Label: "plasteel", CountAsResource: true},
			{Type: "Uranium", Label: "uranium", CountAsResource: true},
			{Type: "ComponentIndustrial", Label: "component", CountAsResource: true},
			{Type: "ComponentSpacer", Label: "advanced component", CountAsResource: true},
			{Type: "Ship_Reactor", Label: "ship reactor", CostList: []goods.ThingCount{
				{Item: "Steel", Count: 10},
				{Item: "ComponentIndustrial", Count: 2},
				{Item: "ComponentSpacer", Count: 3},
				{Item: "Uranium", Count: 5},
			}},
			{Type: "Ship_CryptosleepCasket", Label: "cryptosleep casket", CostList: []goods.ThingCount{
				{Item: "Steel", Count: 4},
				{Item: "ComponentIndustrial", Count: 1},
			}},
		},
		[]*goods.Recipe{
			{
				Name:     "Make_ComponentIndustrial",
				Products: []goods.ThingCount{{Item: "ComponentIndustrial", Count: 1}},
				Ingredients: []goods.IngredientSlot{
					{Substitutes: []goods.Substitute{{Item: "Steel", Count: 12}}},
				},
			},
			{
				Name:     "Make_ComponentSpacer",
				Products: []goods.ThingCount{{Item: "ComponentSpacer", Count: 1}},
				Ingredients: []goods.IngredientSlot{
					{Substitutes: []goods.Substitute{{Item: "Steel", Count: 5}}},
					{Substitutes: []goods.Substitute{{Item: "Plasteel", Count: 10}}},
				},
			},
		},
		"ship-fixture",
	)
}

// ShipPresets builds the default presets over ShipRegistry items
func ShipPresets() []*goal.Goal {
	presets, err := goal.BuildPresets(goal.DefaultPresetDefinitions(goal.ShipPresetParams{
		ReactorItem: "Ship_Reactor",
		CasketItem:  "Ship_CryptosleepCasket",
		ShipParts: []goods.ThingCount{
			{Item: "Ship_Reactor", Count: 1},
			{Item: "Ship_CryptosleepCasket", Count: 1},
		},
	}))
	if err != nil {
		panic(err)
	}
	return presets
}

// GoalFixture is a fully wired tracker over in-memory state
type GoalFixture struct {
	Mediator mediator.Mediator
	Index    *services.RecipeIndex
	Goals    *services.GoalRegistry
	World    *inventory.StaticSource
	Clock    *shared.MockClock
	Registry goods.ItemRegistry
}

// NewGoalFixture wires the tracker with the given registry and presets.
// Persistence is disabled; the world starts empty.
func NewGoalFixture(t *testing.T, registry goods.ItemRegistry, presets []*goal.Goal, mode services.AggregationMode) *GoalFixture {
	t.Helper()

	index := services.NewRecipeIndex(registry)
	world := inventory.NewStaticSource(inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry))
	clock := shared.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	goalRegistry, err := services.NewGoalRegistry(services.NewCostAggregator(index, mode), world, presets, clock)
	if err != nil {
		t.Fatalf("failed to create goal registry: %v", err)
	}

	m := mediator.NewMediator()
	err = goals.RegisterHandlers(m, goals.Dependencies{
		Index:    index,
		Goals:    goalRegistry,
		World:    world,
		Instance: "test",
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("failed to register handlers: %v", err)
	}

	return &GoalFixture{
		Mediator: m,
		Index:    index,
		Goals:    goalRegistry,
		World:    world,
		Clock:    clock,
		Registry: registry,
	}
}

// SetWorld replaces the world snapshot
func (f *GoalFixture) SetWorld(snapshot *inventory.Snapshot) {
	f.World.Set(inventory.NewSnapshotCounter(snapshot, f.Index.Registry()))
}

// SetResources replaces the world with stockpiled resources only
func (f *GoalFixture) SetResources(counts map[goods.ItemType]int) {
	snapshot := inventory.EmptySnapshot()
	for item, count := range counts {
		snapshot.ResourceCounts[item] = count
	}
	f.SetWorld(snapshot)
}

// CapturingLogger records log lines for assertions. Safe for concurrent use.
type CapturingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one captured log line
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// Log implements common.Logger
func (l *CapturingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// Entries returns the captured lines
func (l *CapturingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// HasMessage reports whether a line with the message was logged at the level
func (l *CapturingLogger) HasMessage(level, message string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}

var _ common.Logger = (*CapturingLogger)(nil)
