package goal

import "github.com/andrescamacho/goaltracker-go/internal/domain/goods"

// Deficit is the per-item quantity still missing for a goal.
// A Deficit is immutable once built; recomputes publish a new value.
// Entry order is the order in which the expansion first referenced each item.
type Deficit struct {
	entries []goods.ThingCount
	index   map[goods.ItemType]int
}

// NewDeficit builds a deficit from ordered entries, clamping negatives to zero
func NewDeficit(entries []goods.ThingCount) Deficit {
	d := Deficit{
		entries: make([]goods.ThingCount, 0, len(entries)),
		index:   make(map[goods.ItemType]int, len(entries)),
	}
	for _, e := range entries {
		count := e.Count
		if count < 0 {
			count = 0
		}
		if i, exists := d.index[e.Item]; exists {
			d.entries[i].Count = count
			continue
		}
		d.index[e.Item] = len(d.entries)
		d.entries = append(d.entries, goods.ThingCount{Item: e.Item, Count: count})
	}
	return d
}

// Get returns the missing quantity of an item; absent items are 0
func (d Deficit) Get(item goods.ItemType) int {
	i, ok := d.index[item]
	if !ok {
		return 0
	}
	return d.entries[i].Count
}

// Entries returns every entry, including satisfied (zero) ones
func (d Deficit) Entries() []goods.ThingCount {
	result := make([]goods.ThingCount, len(d.entries))
	copy(result, d.entries)
	return result
}

// Outstanding returns only entries that are still missing something
func (d Deficit) Outstanding() []goods.ThingCount {
	var result []goods.ThingCount
	for _, e := range d.entries {
		if e.Count > 0 {
			result = append(result, e)
		}
	}
	return result
}

// AsMap returns the deficit as a plain map
func (d Deficit) AsMap() map[goods.ItemType]int {
	result := make(map[goods.ItemType]int, len(d.entries))
	for _, e := range d.entries {
		result[e.Item] = e.Count
	}
	return result
}

// IsSatisfied returns true if nothing is missing
func (d Deficit) IsSatisfied() bool {
	return len(d.Outstanding()) == 0
}

// Total returns the sum of all missing quantities
func (d Deficit) Total() int {
	total := 0
	for _, e := range d.entries {
		total += e.Count
	}
	return total
}

// Len returns the number of entries
func (d Deficit) Len() int {
	return len(d.entries)
}
