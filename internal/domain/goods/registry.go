package goods

// StaticRegistry is an in-memory ItemRegistry over data loaded once per session
type StaticRegistry struct {
	items       map[ItemType]*ItemDef
	order       []*ItemDef
	recipes     []*Recipe
	fingerprint string
}

// NewStaticRegistry creates a registry from item and recipe definitions.
// Later duplicates of an item type replace earlier ones but keep the first position.
func NewStaticRegistry(items []*ItemDef, recipes []*Recipe, fingerprint string) *StaticRegistry {
	r := &StaticRegistry{
		items:       make(map[ItemType]*ItemDef, len(items)),
		order:       make([]*ItemDef, 0, len(items)),
		recipes:     recipes,
		fingerprint: fingerprint,
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		if _, exists := r.items[item.Type]; !exists {
			r.order = append(r.order, item)
		} else {
			for i, existing := range r.order {
				if existing.Type == item.Type {
					r.order[i] = item
				}
			}
		}
		r.items[item.Type] = item
	}

	return r
}

// Item returns the definition of an item type
func (r *StaticRegistry) Item(item ItemType) (*ItemDef, bool) {
	def, ok := r.items[item]
	return def, ok
}

// Items returns all item definitions in registry order
func (r *StaticRegistry) Items() []*ItemDef {
	return r.order
}

// Recipes returns all recipes in registry order
func (r *StaticRegistry) Recipes() []*Recipe {
	return r.recipes
}

// Fingerprint identifies the loaded data
func (r *StaticRegistry) Fingerprint() string {
	return r.fingerprint
}

// Validate reports references to item types the registry does not define and
// recipe names used more than once. Neither is fatal for the tracker; they are
// surfaced for diagnostics.
func (r *StaticRegistry) Validate() []error {
	var problems []error

	nameCounts := make(map[string]int, len(r.recipes))
	var names []string
	for _, recipe := range r.recipes {
		if nameCounts[recipe.Name] == 0 {
			names = append(names, recipe.Name)
		}
		nameCounts[recipe.Name]++
	}
	for _, name := range names {
		if nameCounts[name] > 1 {
			problems = append(problems, &ErrDuplicateRecipe{Name: name, Count: nameCounts[name]})
		}
	}

	for _, item := range r.order {
		for _, cost := range item.CostList {
			if _, ok := r.items[cost.Item]; !ok {
				problems = append(problems, &ErrUnknownItem{Item: cost.Item, ReferencedBy: string(item.Type)})
			}
		}
	}

	for _, recipe := range r.recipes {
		for _, product := range recipe.Products {
			if _, ok := r.items[product.Item]; !ok {
				problems = append(problems, &ErrUnknownItem{Item: product.Item, ReferencedBy: "recipe " + recipe.Name})
			}
		}
		for _, ingredient := range recipe.Flatten() {
			if _, ok := r.items[ingredient.Item]; !ok {
				problems = append(problems, &ErrUnknownItem{Item: ingredient.Item, ReferencedBy: "recipe " + recipe.Name})
			}
		}
	}

	return problems
}
