package grpc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	goalgrpc "github.com/andrescamacho/goaltracker-go/internal/adapters/grpc"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/test/helpers"
)

func startServer(t *testing.T) (*helpers.GoalFixture, *goalgrpc.GoalClient) {
	t.Helper()

	fixture := helpers.NewGoalFixture(t, helpers.ShipRegistry(), helpers.ShipPresets(), services.ModeCompatible)
	fixture.SetResources(map[goods.ItemType]int{"Steel": 100, "Uranium": 5})
	_, err := fixture.Mediator.Send(context.Background(), &commands.TickCommand{})
	require.NoError(t, err)

	server, err := goalgrpc.NewGoalServer(fixture.Mediator, &helpers.CapturingLogger{}, "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = server.Serve(ctx)
		close(done)
	}()

	client, err := goalgrpc.NewGoalClient(server.Addr().String())
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		cancel()
		<-done
	})
	return fixture, client
}

func TestGoalService_GetDeficit(t *testing.T) {
	// Arrange
	_, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	deficit, err := client.GetDeficit(ctx, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, goal.PresetReactor, deficit.GoalID)
	assert.Equal(t, string(services.ModeCompatible), deficit.Mode)
	assert.False(t, deficit.ComputedAt.IsZero())
	for _, item := range deficit.Items {
		assert.Positive(t, item.Missing, item.Item)
	}
	assert.NotContains(t, itemNames(deficit.Items), "Uranium")
}

func TestGoalService_SwitchGoal(t *testing.T) {
	// Arrange
	fixture, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	switched, err := client.SwitchGoal(ctx, goal.PresetShip)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, goal.PresetShip, switched.GoalID)
	assert.Equal(t, goal.PresetShip, fixture.Goals.Active().ID())
	assert.Equal(t, fixture.Goals.Deficit().Total(), switched.Outstanding)
}

func TestGoalService_SwitchGoalUnknownPreset(t *testing.T) {
	_, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.SwitchGoal(ctx, "shp")

	require.Error(t, err)
	st, ok := status.FromError(unwrapAll(err))
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Contains(t, st.Message(), "did you mean ship?")
}

func TestGoalService_ListPresets(t *testing.T) {
	_, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	visible, err := client.ListPresets(ctx, false)
	require.NoError(t, err)
	all, err := client.ListPresets(ctx, true)
	require.NoError(t, err)

	require.NotEmpty(t, visible.Presets)
	assert.Equal(t, goal.PresetReactor, visible.Presets[0].ID)
	assert.True(t, visible.Presets[0].Selected)
	assert.Equal(t, []goods.ThingCount{{Item: "Ship_Reactor", Count: 1}}, visible.Presets[0].Targets)
	assert.Len(t, all.Presets, 4)
}

func itemNames(items []queries.DeficitItemDTO) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Item)
	}
	return names
}

func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
