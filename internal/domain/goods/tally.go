package goods

// Tally is an insertion-ordered accumulator of item quantities.
// Iteration order is the order in which items were first added.
type Tally struct {
	order  []ItemType
	counts map[ItemType]int
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{counts: make(map[ItemType]int)}
}

// Add increases the quantity of an item
func (t *Tally) Add(item ItemType, quantity int) {
	t.Set(item, t.counts[item]+quantity)
}

// Set replaces the quantity of an item
func (t *Tally) Set(item ItemType, quantity int) {
	if _, exists := t.counts[item]; !exists {
		t.order = append(t.order, item)
	}
	t.counts[item] = quantity
}

// Get returns the quantity of an item, 0 if absent
func (t *Tally) Get(item ItemType) int {
	return t.counts[item]
}

// Has returns true if the item has been added
func (t *Tally) Has(item ItemType) bool {
	_, ok := t.counts[item]
	return ok
}

// Keys returns items in insertion order
func (t *Tally) Keys() []ItemType {
	keys := make([]ItemType, len(t.order))
	copy(keys, t.order)
	return keys
}

// Entries returns (item, quantity) pairs in insertion order
func (t *Tally) Entries() []ThingCount {
	entries := make([]ThingCount, 0, len(t.order))
	for _, item := range t.order {
		entries = append(entries, ThingCount{Item: item, Count: t.counts[item]})
	}
	return entries
}

// Len returns the number of distinct items
func (t *Tally) Len() int {
	return len(t.order)
}

// Clone returns an independent copy with the same order
func (t *Tally) Clone() *Tally {
	clone := &Tally{
		order:  make([]ItemType, len(t.order)),
		counts: make(map[ItemType]int, len(t.counts)),
	}
	copy(clone.order, t.order)
	for k, v := range t.counts {
		clone.counts[k] = v
	}
	return clone
}
