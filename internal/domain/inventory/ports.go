package inventory

import "github.com/andrescamacho/goaltracker-go/internal/domain/goods"

// StockCounter answers how much of an item currently exists in the world.
// CountAll returns an entry, possibly zero, for every requested item and never fails.
type StockCounter interface {
	CountAll(items []goods.ItemType, includeEquipped, includeBuildings bool) map[goods.ItemType]int
}

// WorldView is a StockCounter that also exposes the state read by goal rules
type WorldView interface {
	StockCounter
	WorldState() WorldState
}

// WorldSource provides the current world view. It never fails; sources that
// cannot refresh keep serving their last good view.
type WorldSource interface {
	Current() WorldView
}
