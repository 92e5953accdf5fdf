package goods

// Recipe is a production rule turning ingredient items into products.
// Each ingredient slot accepts one or more substitutes, each with its own count.
type Recipe struct {
	Name        string
	Products    []ThingCount
	Ingredients []IngredientSlot
}

// IngredientSlot is one ingredient requirement of a recipe
type IngredientSlot struct {
	Substitutes []Substitute
}

// Substitute is one accepted item for an ingredient slot
type Substitute struct {
	Item  ItemType
	Count int
}

// Produces returns true if any product of the recipe is the given item
func (r *Recipe) Produces(item ItemType) bool {
	for _, p := range r.Products {
		if p.Item == item {
			return true
		}
	}
	return false
}

// Yield returns how many units of item one run of the recipe produces, at least 1
func (r *Recipe) Yield(item ItemType) int {
	total := 0
	for _, p := range r.Products {
		if p.Item == item {
			total += p.Count
		}
	}
	if total < 1 {
		return 1
	}
	return total
}

// Runs returns how many whole runs are needed to make units of item.
// Partial runs round up: 5 units of a 4-unit recipe take 2 runs.
func (r *Recipe) Runs(item ItemType, units int) int {
	if units <= 0 {
		return 0
	}
	yield := r.Yield(item)
	return (units + yield - 1) / yield
}

// Flatten resolves every substitute of every slot into (item, count-per-run) pairs.
// Order follows slot order, then substitute order.
func (r *Recipe) Flatten() []ThingCount {
	result := make([]ThingCount, 0, len(r.Ingredients))
	for _, slot := range r.Ingredients {
		for _, sub := range slot.Substitutes {
			result = append(result, ThingCount{Item: sub.Item, Count: sub.Count})
		}
	}
	return result
}
