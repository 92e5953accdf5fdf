package services_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

func TestRecipeIndex_FirstRecipeInRegistryOrderWins(t *testing.T) {
	// Arrange
	registry := goods.NewStaticRegistry(
		[]*goods.ItemDef{{Type: "Steel"}, {Type: "ComponentIndustrial"}},
		[]*goods.Recipe{
			{Name: "Make_ComponentIndustrial", Products: []goods.ThingCount{{Item: "ComponentIndustrial", Count: 1}}},
			{Name: "Make_ComponentIndustrial_Bulk", Products: []goods.ThingCount{{Item: "ComponentIndustrial", Count: 4}}},
		},
		"order",
	)
	idx := services.NewRecipeIndex(registry)

	// Act
	first, ok := idx.RecipeFor("ComponentIndustrial")
	second, _ := idx.RecipeFor("ComponentIndustrial")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "Make_ComponentIndustrial", first.Name)
	assert.Same(t, first, second)
}

func TestRecipeIndex_CachesMisses(t *testing.T) {
	idx := services.NewRecipeIndex(scenarioRegistry())

	_, ok := idx.RecipeFor("RawMetal")
	assert.False(t, ok)
	_, ok = idx.RecipeFor("RawMetal")
	assert.False(t, ok)

	stats := idx.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.CachedItems)
}

func TestRecipeIndex_FlattenedIngredients(t *testing.T) {
	// Arrange
	recipe := &goods.Recipe{
		Name: "Make_Meal",
		Ingredients: []goods.IngredientSlot{
			{Substitutes: []goods.Substitute{{Item: "RawPotatoes", Count: 5}, {Item: "RawRice", Count: 5}}},
			{Substitutes: []goods.Substitute{{Item: "Meat", Count: 3}}},
		},
	}
	idx := services.NewRecipeIndex(scenarioRegistry())

	// Act
	flat := idx.FlattenedIngredients(recipe)

	// Assert
	assert.Equal(t, []goods.ThingCount{
		{Item: "RawPotatoes", Count: 5},
		{Item: "RawRice", Count: 5},
		{Item: "Meat", Count: 3},
	}, flat)
	assert.Nil(t, idx.FlattenedIngredients(nil))
}

func TestRecipeIndex_ResetStartsNewSession(t *testing.T) {
	idx := services.NewRecipeIndex(scenarioRegistry())
	_, _ = idx.RecipeFor("Component")
	session := idx.SessionID()

	replacement := goods.NewStaticRegistry([]*goods.ItemDef{{Type: "Component"}}, nil, "empty")
	idx.Reset(replacement)

	_, ok := idx.RecipeFor("Component")
	assert.False(t, ok, "new registry has no recipe for Component")
	assert.NotEqual(t, session, idx.SessionID())
	assert.Equal(t, "empty", idx.Registry().Fingerprint())
	assert.Equal(t, int64(1), idx.Stats().Misses)
}

func TestRecipeIndex_ResetWithNilKeepsRegistry(t *testing.T) {
	idx := services.NewRecipeIndex(scenarioRegistry())

	idx.Reset(nil)

	assert.Equal(t, "scenario", idx.Registry().Fingerprint())
}

func TestRecipeIndex_ExportRestoreRoundTrip(t *testing.T) {
	// Arrange
	source := services.NewRecipeIndex(scenarioRegistry())
	_, _ = source.RecipeFor("Component")
	_, _ = source.RecipeFor("RawMetal")
	exported := source.Export()

	// Act
	target := services.NewRecipeIndex(scenarioRegistry())
	restored := target.Restore(exported)
	recipe, ok := target.RecipeFor("Component")

	// Assert
	assert.Equal(t, map[goods.ItemType]string{"Component": "Make_Component", "RawMetal": ""}, exported)
	assert.Equal(t, 2, restored)
	require.True(t, ok)
	assert.Equal(t, "Make_Component", recipe.Name)
	assert.Equal(t, int64(1), target.Stats().Hits)
	assert.Equal(t, int64(0), target.Stats().Misses)
}

func TestRecipeIndex_RestoreIgnoresStaleEntries(t *testing.T) {
	idx := services.NewRecipeIndex(scenarioRegistry())

	restored := idx.Restore(map[goods.ItemType]string{
		"Component": "Make_Removed",
		"Reactor":   "Make_Component",
		"RawMetal":  "",
	})

	assert.Equal(t, 1, restored)
	assert.Equal(t, 1, idx.Stats().CachedItems)
}

func TestRecipeIndex_ConcurrentLookupsAgree(t *testing.T) {
	idx := services.NewRecipeIndex(shipRegistry())

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if recipe, ok := idx.RecipeFor("ComponentSpacer"); ok {
				results[i] = recipe.Name
			}
		}(i)
	}
	wg.Wait()

	for _, name := range results {
		assert.Equal(t, "Make_ComponentSpacer", name)
	}
}

func TestRecipeIndex_FlattenedIngredientsPerRecipeNotPerName(t *testing.T) {
	// Arrange
	idx := services.NewRecipeIndex(sharedNameRegistry())
	makeA, ok := idx.RecipeFor("A")
	require.True(t, ok)
	makeB, ok := idx.RecipeFor("B")
	require.True(t, ok)

	// Act
	flatA := idx.FlattenedIngredients(makeA)
	flatB := idx.FlattenedIngredients(makeB)

	// Assert
	assert.Equal(t, []goods.ThingCount{{Item: "Steel", Count: 2}}, flatA)
	assert.Equal(t, []goods.ThingCount{{Item: "Gold", Count: 7}}, flatB)
}

func TestRecipeIndex_RestoreSkipsAmbiguousNames(t *testing.T) {
	idx := services.NewRecipeIndex(sharedNameRegistry())

	restored := idx.Restore(map[goods.ItemType]string{"A": "Smelt", "B": "Smelt", "Steel": ""})

	assert.Equal(t, 1, restored, "only the cached miss is accepted")
	recipe, ok := idx.RecipeFor("B")
	require.True(t, ok)
	assert.Equal(t, []goods.ThingCount{{Item: "Gold", Count: 7}}, idx.FlattenedIngredients(recipe))
}
