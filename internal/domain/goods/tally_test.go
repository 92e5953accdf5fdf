package goods_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

func TestTally_PreservesInsertionOrder(t *testing.T) {
	tally := goods.NewTally()

	tally.Add("Steel", 5)
	tally.Add("Plasteel", 3)
	tally.Add("Steel", 2)
	tally.Set("Gold", 1)

	assert.Equal(t, []goods.ItemType{"Steel", "Plasteel", "Gold"}, tally.Keys())
	assert.Equal(t, 7, tally.Get("Steel"))
	assert.Equal(t, 0, tally.Get("Uranium"))
	assert.False(t, tally.Has("Uranium"))
}

func TestTally_CloneIsIndependent(t *testing.T) {
	// Arrange
	tally := goods.NewTally()
	tally.Add("Steel", 5)

	// Act
	clone := tally.Clone()
	clone.Add("Steel", 10)
	clone.Add("Gold", 1)

	// Assert
	assert.Equal(t, 5, tally.Get("Steel"))
	assert.Equal(t, 1, tally.Len())
	assert.Equal(t, 15, clone.Get("Steel"))
	assert.Equal(t, []goods.ThingCount{{Item: "Steel", Count: 15}, {Item: "Gold", Count: 1}}, clone.Entries())
}
