package inventory

import "github.com/andrescamacho/goaltracker-go/internal/domain/goods"

// SnapshotCounter implements WorldView over a Snapshot.
// The registry decides which items are bulk resources.
type SnapshotCounter struct {
	snapshot *Snapshot
	registry goods.ItemRegistry
}

// NewSnapshotCounter creates a counter; a nil snapshot counts as empty
func NewSnapshotCounter(snapshot *Snapshot, registry goods.ItemRegistry) *SnapshotCounter {
	if snapshot == nil {
		snapshot = EmptySnapshot()
	}
	return &SnapshotCounter{snapshot: snapshot, registry: registry}
}

// Snapshot returns the underlying snapshot
func (c *SnapshotCounter) Snapshot() *Snapshot {
	return c.snapshot
}

// WorldState returns colonist counts for re-evaluation rules
func (c *SnapshotCounter) WorldState() WorldState {
	return c.snapshot.WorldState()
}

// CountAll sums every holding category for each requested item.
// Categories are mutually exclusive: equipped, worn and carried things are
// never also listed as standalone things in a snapshot.
func (c *SnapshotCounter) CountAll(items []goods.ItemType, includeEquipped, includeBuildings bool) map[goods.ItemType]int {
	result := make(map[goods.ItemType]int, len(items))

	for _, item := range items {
		if _, done := result[item]; done {
			continue
		}

		total := 0
		if c.isBulkResource(item) {
			total += c.snapshot.ResourceCounts[item]
		} else {
			total += c.countStandalone(item, includeBuildings)
			total += c.countMinified(item)
		}

		total += c.countCarried(item)

		if includeEquipped {
			for _, colonist := range c.snapshot.Colonists {
				total += sumStacks(colonist.Equipment, item)
				total += sumStacks(colonist.Apparel, item)
				total += sumStacks(colonist.Inventory, item)
			}
		}

		result[item] = total
	}

	return result
}

func (c *SnapshotCounter) isBulkResource(item goods.ItemType) bool {
	if c.registry == nil {
		return false
	}
	def, ok := c.registry.Item(item)
	return ok && def.CountAsResource
}

func (c *SnapshotCounter) countStandalone(item goods.ItemType, includeBuildings bool) int {
	count := 0
	for _, thing := range c.snapshot.Things {
		if thing.IsMinified() || thing.Def != item {
			continue
		}
		if thing.IsBuilding && !includeBuildings {
			continue
		}
		count += thing.Stack
	}
	return count
}

// countMinified counts packaged things: each wrapper contributes wrapper stack × inner stack
func (c *SnapshotCounter) countMinified(item goods.ItemType) int {
	count := 0
	for _, thing := range c.snapshot.Things {
		if thing.IsMinified() && thing.Inner.Def == item {
			count += thing.Stack * thing.Inner.Stack
		}
	}
	return count
}

func (c *SnapshotCounter) countCarried(item goods.ItemType) int {
	count := 0
	for _, colonist := range c.snapshot.Colonists {
		carried := colonist.Carried
		if carried == nil {
			continue
		}
		switch {
		case carried.IsMinified() && carried.Inner.Def == item:
			count += carried.Stack * carried.Inner.Stack
		case !carried.IsMinified() && carried.Def == item:
			count += carried.Stack
		}
	}
	return count
}

func sumStacks(things []Thing, item goods.ItemType) int {
	count := 0
	for _, thing := range things {
		if thing.Def == item {
			count += thing.Stack
		}
	}
	return count
}
