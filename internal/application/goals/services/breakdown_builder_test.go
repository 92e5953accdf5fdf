package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

func TestBreakdownBuilder_ExpandsToRawMaterials(t *testing.T) {
	// Arrange
	registry := scenarioRegistry()
	builder := services.NewBreakdownBuilder(services.NewRecipeIndex(registry))
	counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{"Component": 1}), registry)

	// Act
	roots, problems := builder.Build(oneReactor, counter)

	// Assert
	assert.Empty(t, problems)
	require.Len(t, roots, 1)

	reactor := roots[0]
	assert.Equal(t, goods.AcquisitionBuild, reactor.Kind)
	assert.Equal(t, 1, reactor.Missing())
	require.Len(t, reactor.Children, 1)

	component := reactor.Children[0]
	assert.Equal(t, goods.AcquisitionCraft, component.Kind)
	assert.Equal(t, "Make_Component", component.RecipeName)
	assert.Equal(t, 3, component.Needed)
	assert.Equal(t, 1, component.OnHand)
	require.Len(t, component.Children, 1)

	metal := component.Children[0]
	assert.Equal(t, goods.AcquisitionRaw, metal.Kind)
	assert.Equal(t, 4, metal.Needed)
	assert.Equal(t, []goods.ItemType{"RawMetal"}, reactor.RequiredRawMaterials())
}

func TestBreakdownBuilder_BuiltPartHasNoDemand(t *testing.T) {
	registry := scenarioRegistry()
	builder := services.NewBreakdownBuilder(services.NewRecipeIndex(registry))
	snapshot := inventory.EmptySnapshot()
	snapshot.Things = []inventory.Thing{{Def: "Reactor", Stack: 1, IsBuilding: true}}

	roots, _ := builder.Build(oneReactor, inventory.NewSnapshotCounter(snapshot, registry))

	require.Len(t, roots, 1)
	assert.True(t, roots[0].IsSatisfied())
	assert.Equal(t, 0, roots[0].Children[0].Needed)
}

func TestBreakdownBuilder_CutsCycles(t *testing.T) {
	// Arrange: Hyperweave needs Thread, Thread is spun from Hyperweave scraps
	registry := goods.NewStaticRegistry(
		[]*goods.ItemDef{{Type: "Hyperweave"}, {Type: "Thread"}},
		[]*goods.Recipe{
			{
				Name:        "Make_Hyperweave",
				Products:    []goods.ThingCount{{Item: "Hyperweave", Count: 1}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "Thread", Count: 2}}}},
			},
			{
				Name:        "Make_Thread",
				Products:    []goods.ThingCount{{Item: "Thread", Count: 1}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "Hyperweave", Count: 1}}}},
			},
		},
		"cycle",
	)
	builder := services.NewBreakdownBuilder(services.NewRecipeIndex(registry))

	// Act
	roots, problems := builder.Build([]goods.ThingCount{{Item: "Hyperweave", Count: 1}},
		inventory.NewSnapshotCounter(inventory.EmptySnapshot(), registry))

	// Assert
	require.Len(t, problems, 1)
	var cycle *goods.ErrCircularDependency
	require.ErrorAs(t, problems[0], &cycle)
	assert.Equal(t, goods.ItemType("Hyperweave"), cycle.Item)
	assert.Equal(t, []goods.ItemType{"Hyperweave", "Thread", "Hyperweave"}, cycle.Chain)
	assert.Equal(t, 3, roots[0].TotalDepth())
}

func TestBreakdownBuilder_CraftNodeCountsWholeRuns(t *testing.T) {
	// Arrange
	registry := bulkRegistry()
	builder := services.NewBreakdownBuilder(services.NewRecipeIndex(registry))
	counter := inventory.NewSnapshotCounter(resources(map[goods.ItemType]int{"Component": 1}), registry)

	// Act
	roots, problems := builder.Build(oneReactor, counter)

	// Assert
	assert.Empty(t, problems)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)

	component := roots[0].Children[0]
	assert.Equal(t, 4, component.Needed)
	assert.Equal(t, 3, component.Missing())
	require.Len(t, component.Children, 1)
	assert.Equal(t, 12, component.Children[0].Needed, "3 missing from a 4-unit recipe is one run")
}
