package services_test

import (
	"sync/atomic"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// scenarioRegistry: Reactor costs 3 Component, Component is crafted from 2 RawMetal
func scenarioRegistry() *goods.StaticRegistry {
	return goods.NewStaticRegistry(
		[]*goods.ItemDef{
			{Type: "RawMetal", Label: "raw metal", CountAsResource: true},
			{Type: "Component", Label: "component", CountAsResource: true},
			{Type: "Reactor", Label: "reactor", CostList: []goods.ThingCount{{Item: "Component", Count: 3}}},
		},
		[]*goods.Recipe{
			{
				Name:        "Make_Component",
				Products:    []goods.ThingCount{{Item: "Component", Count: 1}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "RawMetal", Count: 2}}}},
			},
		},
		"scenario",
	)
}

// shipRegistry models a small ship: two crafted costs share Steel, which is
// also a direct cost, and the casket is built from steel and components.
func shipRegistry() *goods.StaticRegistry {
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
		"ship",
	)
}

func resources(counts map[goods.ItemType]int) *inventory.Snapshot {
	snapshot := inventory.EmptySnapshot()
	for item, count := range counts {
		snapshot.ResourceCounts[item] = count
	}
	return snapshot
}

// countingCounter wraps a StockCounter and counts CountAll calls
type countingCounter struct {
	inner inventory.StockCounter
	calls atomic.Int32
}

func (c *countingCounter) CountAll(items []goods.ItemType, includeEquipped, includeBuildings bool) map[goods.ItemType]int {
	c.calls.Add(1)
	return c.inner.CountAll(items, includeEquipped, includeBuildings)
}

// bulkRegistry: Reactor costs 4 Component, and one run of the recipe makes 4
// Component from 12 Steel
func bulkRegistry() *goods.StaticRegistry {
	return goods.NewStaticRegistry(
		[]*goods.ItemDef{
			{Type: "Steel", CountAsResource: true},
			{Type: "Component", CountAsResource: true},
			{Type: "Reactor", CostList: []goods.ThingCount{{Item: "Component", Count: 4}}},
		},
		[]*goods.Recipe{
			{
				Name:        "Make_Component_Bulk",
				Products:    []goods.ThingCount{{Item: "Component", Count: 4}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "Steel", Count: 12}}}},
			},
		},
		"bulk",
	)
}

// sharedNameRegistry: two different recipes are both called Smelt
func sharedNameRegistry() *goods.StaticRegistry {
	return goods.NewStaticRegistry(
		[]*goods.ItemDef{
			{Type: "Steel", CountAsResource: true},
			{Type: "Gold", CountAsResource: true},
			{Type: "A", CountAsResource: true},
			{Type: "B", CountAsResource: true},
			{Type: "Reactor", CostList: []goods.ThingCount{{Item: "A", Count: 1}, {Item: "B", Count: 1}}},
		},
		[]*goods.Recipe{
			{
				Name:        "Smelt",
				Products:    []goods.ThingCount{{Item: "A", Count: 1}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "Steel", Count: 2}}}},
			},
			{
				Name:        "Smelt",
				Products:    []goods.ThingCount{{Item: "B", Count: 1}},
				Ingredients: []goods.IngredientSlot{{Substitutes: []goods.Substitute{{Item: "Gold", Count: 7}}}},
			},
		},
		"shared-name",
	)
}
