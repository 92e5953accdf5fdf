package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

func newAggregator(registry goods.ItemRegistry, mode services.AggregationMode) *services.CostAggregator {
	return services.NewCostAggregator(services.NewRecipeIndex(registry), mode)
}

var oneReactor = []goods.ThingCount{{Item: "Reactor", Count: 1}}

func TestCostAggregator_ScenarioNothingInStock(t *testing.T) {
	// Arrange
	registry := scenarioRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	// Act
	deficit := aggregator.Compute(context.Background(), oneReactor, counter)

	// Assert
	assert.Equal(t, []goods.ThingCount{
		{Item: "Component", Count: 3},
		{Item: "RawMetal", Count: 6},
	}, deficit.Outstanding())
}

func TestCostAggregator_ScenarioIntermediateInStock(t *testing.T) {
	registry := scenarioRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{"Component": 1}), registry)

	deficit := aggregator.Compute(context.Background(), oneReactor, counter)

	assert.Equal(t, 2, deficit.Get("Component"))
	assert.Equal(t, 4, deficit.Get("RawMetal"))
}

func TestCostAggregator_ScenarioPartAlreadyBuilt(t *testing.T) {
	registry := scenarioRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	snapshot := inventory.EmptySnapshot()
	snapshot.Things = []inventory.Thing{{Def: "Reactor", Stack: 1, IsBuilding: true}}
	counter := inventory.NewSnapshotCounter(snapshot, registry)

	deficit := aggregator.Compute(context.Background(), oneReactor, counter)

	assert.True(t, deficit.IsSatisfied())
	assert.Equal(t, 0, deficit.Len())
}

func TestCostAggregator_SharedIngredientOverwriteInCompatibleMode(t *testing.T) {
	// Arrange: Steel is a direct cost and an ingredient of both component recipes
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	// Act
	deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_Reactor", Count: 1}}, counter)

	// Assert: only the last crafted cost (3 spacer components × 5) is added to the direct 10
	assert.Equal(t, []goods.ThingCount{
		{Item: "Steel", Count: 25},
		{Item: "ComponentIndustrial", Count: 2},
		{Item: "ComponentSpacer", Count: 3},
		{Item: "Uranium", Count: 5},
		{Item: "Plasteel", Count: 30},
	}, deficit.Entries())
}

func TestCostAggregator_SharedIngredientAccumulatesInDeepSumMode(t *testing.T) {
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeDeepSum)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_Reactor", Count: 1}}, counter)

	// 10 direct + 2 × 12 + 3 × 5
	assert.Equal(t, 49, deficit.Get("Steel"))
	assert.Equal(t, 30, deficit.Get("Plasteel"))
}

func TestCostAggregator_StockSubtractedAtEveryLevel(t *testing.T) {
	tests := []struct {
		name     string
		mode     services.AggregationMode
		stock    map[goods.ItemType]int
		expected map[goods.ItemType]int
	}{
		{
			name:     "compatible with steel",
			mode:     services.ModeCompatible,
			stock:    map[goods.ItemType]int{"Steel": 20},
			expected: map[goods.ItemType]int{"Steel": 5, "ComponentIndustrial": 2, "ComponentSpacer": 3, "Uranium": 5, "Plasteel": 30},
		},
		{
			name:     "deep sum with steel",
			mode:     services.ModeDeepSum,
			stock:    map[goods.ItemType]int{"Steel": 20},
			expected: map[goods.ItemType]int{"Steel": 29, "ComponentIndustrial": 2, "ComponentSpacer": 3, "Uranium": 5, "Plasteel": 30},
		},
		{
			name:     "spacer components in stock remove their plasteel",
			mode:     services.ModeDeepSum,
			stock:    map[goods.ItemType]int{"ComponentSpacer": 3, "Uranium": 9},
			expected: map[goods.ItemType]int{"Steel": 34, "ComponentIndustrial": 2, "ComponentSpacer": 0, "Uranium": 0, "Plasteel": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := shipRegistry()
			aggregator := newAggregator(registry, tt.mode)
			counter := inventory.NewSnapshotCounter(resources(tt.stock), registry)

			deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_Reactor", Count: 1}}, counter)

			assert.Equal(t, tt.expected, deficit.AsMap())
		})
	}
}

func TestCostAggregator_ScalesWithRemainingParts(t *testing.T) {
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeDeepSum)
	snapshot := inventory.EmptySnapshot()
	snapshot.Things = []inventory.Thing{{Def: "Ship_CryptosleepCasket", Stack: 1, IsBuilding: true}}
	counter := inventory.NewSnapshotCounter(snapshot, registry)

	deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_CryptosleepCasket", Count: 4}}, counter)

	// 3 caskets left: 12 steel direct, 3 components, 36 steel for the components
	assert.Equal(t, 48, deficit.Get("Steel"))
	assert.Equal(t, 3, deficit.Get("ComponentIndustrial"))
}

func TestCostAggregator_PartsWithoutCostAreIgnored(t *testing.T) {
	registry := scenarioRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	deficit := aggregator.Compute(context.Background(), []goods.ThingCount{
		{Item: "RawMetal", Count: 50},
		{Item: "UnknownThing", Count: 2},
	}, counter)

	assert.Equal(t, 0, deficit.Len())
}

func TestCostAggregator_CountsStockInTwoBatches(t *testing.T) {
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := &countingCounter{inner: inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)}

	aggregator.Compute(context.Background(), []goods.ThingCount{
		{Item: "Ship_Reactor", Count: 1},
		{Item: "Ship_CryptosleepCasket", Count: 2},
	}, counter)

	assert.Equal(t, int32(2), counter.calls.Load(), "one count for parts and one for all demand items")
}

func TestCostAggregator_NeverNegative(t *testing.T) {
	registry := shipRegistry()
	stock := map[goods.ItemType]int{
		"Steel": 10000, "Plasteel": 10000, "Uranium": 10000,
		"ComponentIndustrial": 10000, "ComponentSpacer": 10000,
	}

	for _, mode := range []services.AggregationMode{services.ModeCompatible, services.ModeDeepSum} {
		aggregator := newAggregator(registry, mode)
		counter := inventory.NewSnapshotCounter(resources(stock), registry)

		deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_Reactor", Count: 3}}, counter)

		for _, entry := range deficit.Entries() {
			assert.GreaterOrEqual(t, entry.Count, 0, "mode %s item %s", mode, entry.Item)
		}
		assert.True(t, deficit.IsSatisfied(), "mode %s", mode)
	}
}

func TestCostAggregator_Idempotent(t *testing.T) {
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeCompatible)
	counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{"Steel": 7, "Plasteel": 3}), registry)
	targets := []goods.ThingCount{{Item: "Ship_Reactor", Count: 2}, {Item: "Ship_CryptosleepCasket", Count: 3}}

	first := aggregator.Compute(context.Background(), targets, counter)
	second := aggregator.Compute(context.Background(), targets, counter)

	assert.Equal(t, first.Entries(), second.Entries())
}

func TestCostAggregator_MoreStockNeverIncreasesDeficit(t *testing.T) {
	registry := shipRegistry()
	items := []goods.ItemType{"Steel", "Plasteel", "Uranium", "ComponentIndustrial", "ComponentSpacer"}
	targets := []goods.ThingCount{{Item: "Ship_Reactor", Count: 2}, {Item: "Ship_CryptosleepCasket", Count: 2}}

	for _, mode := range []services.AggregationMode{services.ModeCompatible, services.ModeDeepSum} {
		aggregator := newAggregator(registry, mode)
		base := aggregator.Compute(context.Background(), targets, inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry))

		for _, item := range items {
			for _, amount := range []int{1, 5, 40} {
				counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{item: amount}), registry)
				more := aggregator.Compute(context.Background(), targets, counter)

				for _, entry := range base.Entries() {
					assert.LessOrEqual(t, more.Get(entry.Item), entry.Count,
						"mode %s: adding %d %s raised %s", mode, amount, item, entry.Item)
				}
			}
		}
	}
}

func TestCostAggregator_DoesNotMutateRegistry(t *testing.T) {
	registry := shipRegistry()
	aggregator := newAggregator(registry, services.ModeDeepSum)
	reactor, _ := registry.Item("Ship_Reactor")
	before := append([]goods.ThingCount{}, reactor.CostList...)

	aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Ship_Reactor", Count: 5}},
		inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry))

	assert.Equal(t, before, reactor.CostList)
	assert.Equal(t, 12, registry.Recipes()[0].Ingredients[0].Substitutes[0].Count)
}

func TestModeFromDeepSum(t *testing.T) {
	assert.Equal(t, services.ModeDeepSum, services.ModeFromDeepSum(true))
	assert.Equal(t, services.ModeCompatible, services.ModeFromDeepSum(false))
	assert.Equal(t, services.ModeCompatible, services.NewCostAggregator(nil, "bogus").Mode())
}

func TestCostAggregator_RecipeYieldDividesIngredientDemand(t *testing.T) {
	tests := []struct {
		name      string
		component int
		wantSteel int
	}{
		{name: "one full run", component: 0, wantSteel: 12},
		{name: "partial run rounds up", component: 3, wantSteel: 12},
		{name: "nothing left to craft", component: 4, wantSteel: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			registry := bulkRegistry()
			aggregator := newAggregator(registry, services.ModeCompatible)
			counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{"Component": tt.component}), registry)

			// Act
			deficit := aggregator.Compute(context.Background(), oneReactor, counter)

			// Assert
			assert.Equal(t, 4-tt.component, deficit.Get("Component"))
			assert.Equal(t, tt.wantSteel, deficit.Get("Steel"))
		})
	}
}

func TestCostAggregator_RecipeYieldRoundsUpAcrossRuns(t *testing.T) {
	registry := bulkRegistry()
	aggregator := newAggregator(registry, services.ModeDeepSum)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	// 2 reactors need 8 components: two runs
	deficit := aggregator.Compute(context.Background(), []goods.ThingCount{{Item: "Reactor", Count: 2}}, counter)

	assert.Equal(t, 8, deficit.Get("Component"))
	assert.Equal(t, 24, deficit.Get("Steel"))
}

func TestCostAggregator_RecipesSharingANameKeepTheirOwnIngredients(t *testing.T) {
	// Arrange
	registry := sharedNameRegistry()
	aggregator := newAggregator(registry, services.ModeDeepSum)
	counter := inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry)

	// Act
	deficit := aggregator.Compute(context.Background(), oneReactor, counter)

	// Assert
	assert.Equal(t, []goods.ThingCount{
		{Item: "A", Count: 1},
		{Item: "B", Count: 1},
		{Item: "Steel", Count: 2},
		{Item: "Gold", Count: 7},
	}, deficit.Outstanding())
}
