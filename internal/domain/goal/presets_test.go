package goal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

func shipParams() goal.ShipPresetParams {
	return goal.ShipPresetParams{
		ReactorItem: "Ship_Reactor",
		CasketItem:  "Ship_CryptosleepCasket",
		ShipParts: []goods.ThingCount{
			{Item: "Ship_Beam", Count: 10},
			{Item: "Ship_CryptosleepCasket", Count: 1},
			{Item: "Ship_ComputerCore", Count: 1},
			{Item: "Ship_Reactor", Count: 1},
			{Item: "Ship_Engine", Count: 3},
			{Item: "Ship_SensorCluster", Count: 1},
		},
	}
}

func TestDefaultPresets_BuildsFourGoals(t *testing.T) {
	// Act
	goals, err := goal.BuildPresets(goal.DefaultPresetDefinitions(shipParams()))

	// Assert
	require.NoError(t, err)
	require.Len(t, goals, 4)
	assert.Equal(t, goal.PresetReactor, goals[0].ID())
	assert.Equal(t, goal.PresetShip, goals[1].ID())
	assert.Equal(t, goal.PresetShipMap, goals[2].ID())
	assert.Equal(t, goal.PresetShipAll, goals[3].ID())

	assert.False(t, goals[1].HasRule())
	assert.True(t, goals[2].HasRule())

	item, scope := goals[3].LabelItem()
	assert.Equal(t, goods.ItemType("Ship_CryptosleepCasket"), item)
	assert.Equal(t, goal.ScopeAll, scope)
}

func TestDefaultPresets_WithoutShipPartsOnlyReactor(t *testing.T) {
	defs := goal.DefaultPresetDefinitions(goal.ShipPresetParams{ReactorItem: "Ship_Reactor"})

	require.Len(t, defs, 1)
	assert.Equal(t, goal.PresetReactor, defs[0].ID)
}

func TestPresetDefinition_BuildRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		def  goal.PresetDefinition
	}{
		{"missing id", goal.PresetDefinition{Parts: []goods.ThingCount{{Item: "Steel", Count: 1}}}},
		{"no parts", goal.PresetDefinition{ID: "empty"}},
		{"negative target", goal.PresetDefinition{ID: "neg", Parts: []goods.ThingCount{{Item: "Steel", Count: -1}}}},
		{"bad scope", goal.PresetDefinition{ID: "scope", Parts: []goods.ThingCount{{Item: "Steel", Count: 1}}, ScaleItem: "Steel", Scope: "galaxy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.def.Build()
			var invalid *goal.ErrInvalidPreset
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestBuildPresets_LaterDefinitionReplacesEarlier(t *testing.T) {
	defs := append(goal.DefaultPresetDefinitions(shipParams()), goal.PresetDefinition{
		ID:    goal.PresetReactor,
		Label: "two reactors",
		Parts: []goods.ThingCount{{Item: "Ship_Reactor", Count: 2}},
	})

	goals, err := goal.BuildPresets(defs)

	require.NoError(t, err)
	require.Len(t, goals, 4)
	assert.Equal(t, "two reactors", goals[0].Label())
	assert.Equal(t, 2, goals[0].Target("Ship_Reactor"))
}
