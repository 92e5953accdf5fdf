package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

// SwitchGoalCommand makes a preset the active goal
type SwitchGoalCommand struct {
	PresetID string
}

// SwitchGoalResponse describes the newly active goal
type SwitchGoalResponse struct {
	GoalID      string
	Label       string
	Outstanding int
}

// SwitchGoalHandler handles the SwitchGoal command.
// When a state repository is configured the selection survives restarts.
type SwitchGoalHandler struct {
	goals     *services.GoalRegistry
	stateRepo goal.StateRepository
	instance  string
	clock     shared.Clock
}

// NewSwitchGoalHandler creates a new SwitchGoalHandler; stateRepo may be nil
func NewSwitchGoalHandler(
	goals *services.GoalRegistry,
	stateRepo goal.StateRepository,
	instance string,
	clock shared.Clock,
) *SwitchGoalHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SwitchGoalHandler{
		goals:     goals,
		stateRepo: stateRepo,
		instance:  instance,
		clock:     clock,
	}
}

// Handle executes the SwitchGoal command
func (h *SwitchGoalHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SwitchGoalCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SwitchGoalCommand")
	}

	if err := h.goals.SwitchToPreset(ctx, cmd.PresetID); err != nil {
		return nil, err
	}

	active := h.goals.Active()

	if h.stateRepo != nil {
		state := &goal.State{
			Instance:     h.instance,
			ActivePreset: active.ID(),
			UpdatedAt:    h.clock.Now(),
		}
		// The switch already happened; a failed save only costs the selection on restart
		if err := h.stateRepo.Save(ctx, state); err != nil {
			common.LoggerFromContext(ctx).Log(common.LevelWarn, "Failed to persist active goal", map[string]interface{}{
				"goal":  active.ID(),
				"error": err.Error(),
			})
		}
	}

	return &SwitchGoalResponse{
		GoalID:      active.ID(),
		Label:       active.Label(),
		Outstanding: active.Deficit().Total(),
	}, nil
}
