package services

import (
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// BreakdownBuilder builds per-part material trees for diagnostics.
// Unlike the CostAggregator it expands recursively to raw materials; it does
// not influence the deficit.
type BreakdownBuilder struct {
	index *RecipeIndex
}

// NewBreakdownBuilder creates a builder resolving recipes through the index
func NewBreakdownBuilder(index *RecipeIndex) *BreakdownBuilder {
	return &BreakdownBuilder{index: index}
}

// Build returns one tree per target. Each node needs the quantity its parent is
// missing; stock is subtracted at every level. Cycles in recipe data are cut at
// the repeated item and reported as *goods.ErrCircularDependency.
func (b *BreakdownBuilder) Build(targets []goods.ThingCount, counter inventory.StockCounter) ([]*goods.BreakdownNode, []error) {
	w := &breakdownWalk{
		builder: b,
		counter: counter,
		stock:   make(map[goods.ItemType]int),
	}

	// Parts may already stand as buildings; everything below counts loose stock only
	partStock := counter.CountAll(goods.Items(targets), false, true)

	roots := make([]*goods.BreakdownNode, 0, len(targets))
	for _, target := range targets {
		roots = append(roots, w.expand(target.Item, target.Count, partStock[target.Item], nil))
	}

	return roots, w.problems
}

type breakdownWalk struct {
	builder  *BreakdownBuilder
	counter  inventory.StockCounter
	stock    map[goods.ItemType]int
	problems []error
}

func (w *breakdownWalk) expand(item goods.ItemType, needed, onHand int, path []goods.ItemType) *goods.BreakdownNode {
	for _, ancestor := range path {
		if ancestor == item {
			chain := append(append([]goods.ItemType{}, path...), item)
			w.problems = append(w.problems, &goods.ErrCircularDependency{Item: item, Chain: chain})
			return goods.NewBreakdownNode(item, goods.AcquisitionRaw, needed, onHand)
		}
	}
	path = append(path, item)

	registry := w.builder.index.Registry()
	var def *goods.ItemDef
	if registry != nil {
		def, _ = registry.Item(item)
	}

	if def != nil && def.IsBuildable() {
		node := goods.NewBreakdownNode(item, goods.AcquisitionBuild, needed, onHand)
		w.addChildren(node, def.CostList, node.Missing(), path)
		return node
	}

	if recipe, ok := w.builder.index.RecipeFor(item); ok {
		node := goods.NewBreakdownNode(item, goods.AcquisitionCraft, needed, onHand)
		node.RecipeName = recipe.Name
		w.addChildren(node, w.builder.index.FlattenedIngredients(recipe), recipe.Runs(item, node.Missing()), path)
		return node
	}

	return goods.NewBreakdownNode(item, goods.AcquisitionRaw, needed, onHand)
}

// addChildren expands inputs needed times: missing units to build, or recipe runs to craft
func (w *breakdownWalk) addChildren(node *goods.BreakdownNode, inputs []goods.ThingCount, times int, path []goods.ItemType) {
	for _, input := range inputs {
		node.AddChild(w.expand(input.Item, times*input.Count, w.stockOf(input.Item), path))
	}
}

func (w *breakdownWalk) stockOf(item goods.ItemType) int {
	if count, ok := w.stock[item]; ok {
		return count
	}
	count := w.counter.CountAll([]goods.ItemType{item}, false, false)[item]
	w.stock[item] = count
	return count
}
