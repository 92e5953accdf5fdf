package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// TickCommand recomputes the active goal's deficit
type TickCommand struct {
	// Trigger labels the recompute in logs and metrics; defaults to "tick"
	Trigger string
}

// TickResponse summarizes the recompute
type TickResponse struct {
	GoalID      string
	Outstanding []goods.ThingCount
	Total       int
}

// TickHandler handles the Tick command
type TickHandler struct {
	goals *services.GoalRegistry
}

// NewTickHandler creates a new TickHandler
func NewTickHandler(goals *services.GoalRegistry) *TickHandler {
	return &TickHandler{goals: goals}
}

// Handle executes the Tick command
func (h *TickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*TickCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TickCommand")
	}

	trigger := cmd.Trigger
	if trigger == "" {
		trigger = services.TriggerTick
	}

	deficit := h.goals.Recompute(ctx, trigger)

	return &TickResponse{
		GoalID:      h.goals.Active().ID(),
		Outstanding: deficit.Outstanding(),
		Total:       deficit.Total(),
	}, nil
}
