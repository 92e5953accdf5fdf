package inventory

import "github.com/andrescamacho/goaltracker-go/internal/domain/goods"

// Thing is one stack of items present in the world.
// A minified wrapper (a packaged building) has Inner set to the packaged thing.
type Thing struct {
	Def        goods.ItemType
	Stack      int
	IsBuilding bool
	Inner      *Thing
}

// IsMinified returns true if the thing is a wrapper around another thing
func (t *Thing) IsMinified() bool {
	return t.Inner != nil
}

// Colonist is a free colonist spawned on the current map together with what they hold
type Colonist struct {
	Name      string
	Carried   *Thing
	Equipment []Thing
	Apparel   []Thing
	Inventory []Thing
}

// Snapshot is a read-only view of the world's inventory at one point in time
type Snapshot struct {
	// ResourceCounts is the world's bulk resource counter (stockpiled resources)
	ResourceCounts map[goods.ItemType]int

	// Things are standalone things spawned on the map, including minified wrappers
	Things []Thing

	// Colonists are the free colonists spawned on the map
	Colonists []Colonist

	// ColonistsElsewhere counts free colonists alive outside the map
	// (other maps, caravans, travelling transport pods)
	ColonistsElsewhere int
}

// EmptySnapshot returns a snapshot with nothing in it
func EmptySnapshot() *Snapshot {
	return &Snapshot{ResourceCounts: make(map[goods.ItemType]int)}
}

// WorldState is the part of the world that goal re-evaluation rules may read
type WorldState struct {
	ColonistsOnMap int
	ColonistsTotal int
}

// WorldState derives colonist counts from the snapshot
func (s *Snapshot) WorldState() WorldState {
	if s == nil {
		return WorldState{}
	}
	return WorldState{
		ColonistsOnMap: len(s.Colonists),
		ColonistsTotal: len(s.Colonists) + s.ColonistsElsewhere,
	}
}
