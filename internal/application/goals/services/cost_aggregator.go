package services

import (
	"context"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// AggregationMode selects how sub-ingredient demand is folded into the deficit
type AggregationMode string

const (
	// ModeCompatible keeps the last-writer-wins folding: an ingredient reached from
	// several crafted costs keeps only the contribution of the last one visited,
	// plus its own direct cost. Only the folding is kept; stock is counted
	// through StockCounter.CountAll, not the world's resource counter alone.
	ModeCompatible AggregationMode = "compatible"

	// ModeDeepSum accumulates every contribution
	ModeDeepSum AggregationMode = "deep-sum"
)

// ModeFromDeepSum maps the tracker.deep_sum config flag to a mode
func ModeFromDeepSum(deepSum bool) AggregationMode {
	if deepSum {
		return ModeDeepSum
	}
	return ModeCompatible
}

// CostAggregator turns goal targets into a deficit by expanding construction
// costs one level and crafted costs one more recipe level, subtracting stock
// at each level.
//
// The expansion:
//  1. remaining part quantity = target - on hand (buildings included)
//  2. costs[item] += remaining × per-unit construction cost
//  3. for each crafted cost, missing = costs[item] - stock; the recipe runs
//     ceil(missing / yield) times and each flattened ingredient receives
//     runs × per-run count
//  4. deficit[item] = total demand - stock
//
// Compute never fails and never mutates registry data.
type CostAggregator struct {
	index *RecipeIndex
	mode  AggregationMode
}

// NewCostAggregator creates an aggregator resolving recipes through the index
func NewCostAggregator(index *RecipeIndex, mode AggregationMode) *CostAggregator {
	if mode != ModeDeepSum {
		mode = ModeCompatible
	}
	return &CostAggregator{
		index: index,
		mode:  mode,
	}
}

// Mode returns the aggregation mode
func (a *CostAggregator) Mode() AggregationMode {
	return a.mode
}

// Compute returns a brand-new deficit for the targets against the counter's stock
func (a *CostAggregator) Compute(ctx context.Context, targets []goods.ThingCount, counter inventory.StockCounter) goal.Deficit {
	logger := common.LoggerFromContext(ctx)
	registry := a.index.Registry()

	// Step 1: how many of each part still have to be built
	onHand := counter.CountAll(goods.Items(targets), false, true)

	// Step 2: direct construction costs of the missing parts
	costs := goods.NewTally()
	for _, target := range targets {
		remaining := target.Count - onHand[target.Item]
		if remaining <= 0 {
			continue
		}

		var def *goods.ItemDef
		if registry != nil {
			def, _ = registry.Item(target.Item)
		}
		if def == nil || !def.IsBuildable() {
			logger.Log(common.LevelDebug, "Goal part has no construction cost", map[string]interface{}{
				"item":      string(target.Item),
				"remaining": remaining,
			})
			continue
		}

		for _, cost := range def.CostList {
			costs.Add(cost.Item, remaining*cost.Count)
		}
	}

	if costs.Len() == 0 {
		return goal.NewDeficit(nil)
	}

	// Every item that can appear in the deficit is known before expansion,
	// so stock is counted in one batch
	stock := counter.CountAll(a.demandItems(costs), false, false)

	// Step 3: one recipe level below each crafted cost
	deepCosts := costs.Clone()
	for _, entry := range costs.Entries() {
		recipe, ok := a.index.RecipeFor(entry.Item)
		if !ok {
			continue
		}

		missing := entry.Count - stock[entry.Item]
		if missing < 0 {
			missing = 0
		}
		runs := recipe.Runs(entry.Item, missing)

		for _, ingredient := range a.index.FlattenedIngredients(recipe) {
			contribution := runs * ingredient.Count
			if a.mode == ModeDeepSum {
				deepCosts.Add(ingredient.Item, contribution)
				continue
			}
			deepCosts.Set(ingredient.Item, costs.Get(ingredient.Item)+contribution)
		}
	}

	// Step 4: subtract stock from total demand
	entries := make([]goods.ThingCount, 0, deepCosts.Len())
	for _, entry := range deepCosts.Entries() {
		outstanding := entry.Count - stock[entry.Item]
		if outstanding < 0 {
			outstanding = 0
		}
		entries = append(entries, goods.ThingCount{Item: entry.Item, Count: outstanding})
	}

	return goal.NewDeficit(entries)
}

// demandItems lists the direct cost items followed by the ingredients of their recipes
func (a *CostAggregator) demandItems(costs *goods.Tally) []goods.ItemType {
	items := costs.Keys()
	seen := make(map[goods.ItemType]bool, len(items))
	for _, item := range items {
		seen[item] = true
	}

	for _, item := range costs.Keys() {
		recipe, ok := a.index.RecipeFor(item)
		if !ok {
			continue
		}
		for _, ingredient := range a.index.FlattenedIngredients(recipe) {
			if !seen[ingredient.Item] {
				seen[ingredient.Item] = true
				items = append(items, ingredient.Item)
			}
		}
	}

	return items
}
