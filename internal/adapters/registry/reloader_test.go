package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReloadFixture(t *testing.T) (*services.RecipeIndex, mediator.Mediator) {
	t.Helper()

	index := services.NewRecipeIndex(goods.NewStaticRegistry(nil, nil, "empty"))
	aggregator := services.NewCostAggregator(index, services.ModeCompatible)
	world := inventory.NewStaticSource(inventory.NewSnapshotCounter(nil, nil))
	reactor := goal.NewGoal("reactor", "1 reactor", []goods.ThingCount{{Item: "Ship_Reactor", Count: 1}}, nil)
	goals, err := services.NewGoalRegistry(aggregator, world, []*goal.Goal{reactor}, nil)
	require.NoError(t, err)

	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.ReloadRegistryCommand](m, commands.NewReloadRegistryHandler(index, goals)))
	return index, m
}

func TestReloader_StartsNewSession(t *testing.T) {
	// Arrange
	index, m := newReloadFixture(t)
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRegistry), 0644))
	previousSession := index.SessionID()

	// Act
	resp, err := NewReloader(path, 0, m).Reload(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, index.Registry().Fingerprint(), resp.Fingerprint)
	assert.NotEqual(t, previousSession, resp.SessionID)
	assert.Zero(t, resp.Warnings)
	_, ok := index.RecipeFor("ComponentIndustrial")
	assert.True(t, ok)
}

func TestReloader_BadFileKeepsSession(t *testing.T) {
	// Arrange
	index, m := newReloadFixture(t)
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: [\n"), 0644))
	previousSession := index.SessionID()

	// Act
	_, err := NewReloader(path, 0, m).Reload(context.Background())

	// Assert
	var invalid *goods.ErrInvalidRegistry
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, previousSession, index.SessionID())
	assert.Equal(t, "empty", index.Registry().Fingerprint())
}

