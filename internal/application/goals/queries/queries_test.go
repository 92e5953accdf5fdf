package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

type fixture struct {
	index  *services.RecipeIndex
	goals  *services.GoalRegistry
	source *inventory.StaticSource
}

func newFixture(t *testing.T, snapshot *inventory.Snapshot) *fixture {
	t.Helper()

	registry := goods.NewStaticRegistry(
		[]*goods.ItemDef{
			{Type: "RawMetal", Label: "raw metal", CountAsResource: true},
			{Type: "Component", Label: "component", CountAsResource: true},
			{Type: "Reactor", Label: "reactor", CostList: []goods.ThingCount{{Item: "Component", Count: 3}}},
			{Type: "Casket", Label: "casket", CostList: []goods.ThingCount{{Item: "RawMetal", Count: 4}}},
		},
		[]*goods.Recipe{{
			Name:        "Make_Component",
			Products:    []goods.ThingCount{{Item: "Component", Count: 1}},
			Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "RawMetal", Count: 2}}}},
		}},
		"queries",
	)
	index := services.NewRecipeIndex(registry)
	source := inventory.NewStaticSource(inventory.NewSnapshotCounter(snapshot, registry))
	presets, err := goal.BuildPresets(goal.DefaultPresetDefinitions(goal.ShipPresetParams{
		ReactorItem: "Reactor",
		CasketItem:  "Casket",
		ShipParts:   []goods.ThingCount{{Item: "Reactor", Count: 1}},
	}))
	require.NoError(t, err)

	clock := shared.NewMockClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	goals, err := services.NewGoalRegistry(services.NewCostAggregator(index, services.ModeDeepSum), source, presets, clock)
	require.NoError(t, err)

	return &fixture{index: index, goals: goals, source: source}
}

func TestGetDeficit_OmitsSatisfiedItems(t *testing.T) {
	// Arrange
	f := newFixture(t, &inventory.Snapshot{ResourceCounts: map[goods.ItemType]int{"Component": 3}})
	f.goals.Tick(context.Background())
	handler := queries.NewGetDeficitHandler(f.goals, f.index)

	// Act
	response, err := handler.Handle(context.Background(), &queries.GetDeficitQuery{})
	full, fullErr := handler.Handle(context.Background(), &queries.GetDeficitQuery{IncludeSatisfied: true})

	// Assert
	require.NoError(t, err)
	require.NoError(t, fullErr)

	deficit := response.(*queries.GetDeficitResponse)
	assert.Equal(t, goal.PresetReactor, deficit.GoalID)
	assert.Equal(t, "deep-sum", deficit.Mode)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), deficit.ComputedAt)
	assert.Empty(t, deficit.Items)
	assert.Equal(t, 0, deficit.Total)

	assert.Equal(t, []queries.DeficitItemDTO{
		{Item: "Component", Label: "component", Missing: 0},
		{Item: "RawMetal", Label: "raw metal", Missing: 0},
	}, full.(*queries.GetDeficitResponse).Items)
}

func TestGetDeficit_LabelsItems(t *testing.T) {
	f := newFixture(t, inventory.EmptySnapshot())
	f.goals.Tick(context.Background())

	response, err := queries.NewGetDeficitHandler(f.goals, f.index).Handle(context.Background(), &queries.GetDeficitQuery{})

	require.NoError(t, err)
	assert.Equal(t, []queries.DeficitItemDTO{
		{Item: "Component", Label: "component", Missing: 3},
		{Item: "RawMetal", Label: "raw metal", Missing: 6},
	}, response.(*queries.GetDeficitResponse).Items)
}

func TestListPresets_HidesColonistPresetsUnlessAll(t *testing.T) {
	f := newFixture(t, inventory.EmptySnapshot())
	handler := queries.NewListPresetsHandler(f.goals)

	menu, err := handler.Handle(context.Background(), &queries.ListPresetsQuery{})
	require.NoError(t, err)
	all, err := handler.Handle(context.Background(), &queries.ListPresetsQuery{All: true})
	require.NoError(t, err)

	visible := menu.(*queries.ListPresetsResponse).Presets
	require.Len(t, visible, 2)
	assert.True(t, visible[0].Selected)
	assert.Equal(t, []goods.ThingCount{{Item: "Reactor", Count: 1}}, visible[0].Targets)

	everything := all.(*queries.ListPresetsResponse).Presets
	require.Len(t, everything, 4)
	assert.Equal(t, goal.PresetShipAll, everything[3].ID)
	assert.Equal(t, "ship for all colonists", everything[3].Label)
}

func TestGetBreakdown_UsesPresetTargetsWithoutPublishing(t *testing.T) {
	// Arrange
	snapshot := &inventory.Snapshot{Colonists: []inventory.Colonist{{Name: "A"}, {Name: "B"}}}
	f := newFixture(t, snapshot)
	handler := queries.NewGetBreakdownHandler(f.goals, services.NewBreakdownBuilder(f.index), f.source)

	// Act
	response, err := handler.Handle(context.Background(), &queries.GetBreakdownQuery{PresetID: goal.PresetShipMap})

	// Assert
	require.NoError(t, err)
	breakdown := response.(*queries.GetBreakdownResponse)
	assert.Equal(t, goal.PresetShipMap, breakdown.GoalID)
	require.Len(t, breakdown.Roots, 2)
	assert.Equal(t, goods.ItemType("Casket"), breakdown.Roots[1].Item)
	assert.Equal(t, 2, breakdown.Roots[1].Needed)
	assert.Equal(t, 8, breakdown.Roots[1].Children[0].Needed)

	shipMap, _ := f.goals.Preset(goal.PresetShipMap)
	assert.Equal(t, 0, shipMap.Target("Casket"), "breakdown does not re-evaluate the preset")
}

func TestGetBreakdown_UnknownPreset(t *testing.T) {
	f := newFixture(t, inventory.EmptySnapshot())
	handler := queries.NewGetBreakdownHandler(f.goals, services.NewBreakdownBuilder(f.index), f.source)

	_, err := handler.Handle(context.Background(), &queries.GetBreakdownQuery{PresetID: "moon-base"})

	var unknown *goal.ErrUnknownPreset
	assert.ErrorAs(t, err, &unknown)
}
