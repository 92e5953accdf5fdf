package goal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

func TestDeficit_ClampsAndKeepsOrder(t *testing.T) {
	d := goal.NewDeficit([]goods.ThingCount{
		{Item: "ComponentSpacer", Count: 3},
		{Item: "Steel", Count: -20},
		{Item: "Plasteel", Count: 140},
	})

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 0, d.Get("Steel"))
	assert.Equal(t, 0, d.Get("Uranium"))
	assert.Equal(t, 143, d.Total())
	assert.Equal(t, []goods.ThingCount{{Item: "ComponentSpacer", Count: 3}, {Item: "Plasteel", Count: 140}}, d.Outstanding())
	assert.False(t, d.IsSatisfied())
}

func TestDeficit_EntriesAreCopies(t *testing.T) {
	d := goal.NewDeficit([]goods.ThingCount{{Item: "Steel", Count: 5}})

	entries := d.Entries()
	entries[0].Count = 99

	assert.Equal(t, 5, d.Get("Steel"))
}

func TestDeficit_AllZeroIsSatisfied(t *testing.T) {
	assert.True(t, goal.NewDeficit(nil).IsSatisfied())
	assert.True(t, goal.NewDeficit([]goods.ThingCount{{Item: "Steel", Count: 0}}).IsSatisfied())
}
