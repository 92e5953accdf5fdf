package goods

// ItemType identifies a kind of material or part (a def name such as "Steel").
// Item types are defined by the registry; the tracker never creates them.
type ItemType string

// ItemDef describes one item type as loaded from the registry
type ItemDef struct {
	Type  ItemType
	Label string

	// CountAsResource marks items tracked in bulk by the world's resource counter
	CountAsResource bool

	// CostList is the construction cost for building one unit of this item
	CostList []ThingCount
}

// IsBuildable returns true if the item has a construction cost
func (d *ItemDef) IsBuildable() bool {
	return len(d.CostList) > 0
}

// DisplayLabel returns the label, falling back to the item type
func (d *ItemDef) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return string(d.Type)
}

// ThingCount pairs an item type with a quantity
type ThingCount struct {
	Item  ItemType
	Count int
}

// NewThingCount creates a new ThingCount value object
func NewThingCount(item ItemType, count int) ThingCount {
	return ThingCount{Item: item, Count: count}
}

// Items extracts the item types from a list of counts, preserving order
func Items(counts []ThingCount) []ItemType {
	result := make([]ItemType, 0, len(counts))
	for _, c := range counts {
		result = append(result, c.Item)
	}
	return result
}
