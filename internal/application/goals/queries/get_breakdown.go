package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
)

// GetBreakdownQuery builds the material tree of a preset, or of the active goal when PresetID is empty
type GetBreakdownQuery struct {
	PresetID string
}

// GetBreakdownResponse contains one tree per goal part
type GetBreakdownResponse struct {
	GoalID   string
	Roots    []*goods.BreakdownNode
	Problems []error
}

// GetBreakdownHandler handles the GetBreakdown query
type GetBreakdownHandler struct {
	goals   *services.GoalRegistry
	builder *services.BreakdownBuilder
	world   inventory.WorldSource
}

// NewGetBreakdownHandler creates a new GetBreakdownHandler
func NewGetBreakdownHandler(
	goals *services.GoalRegistry,
	builder *services.BreakdownBuilder,
	world inventory.WorldSource,
) *GetBreakdownHandler {
	return &GetBreakdownHandler{
		goals:   goals,
		builder: builder,
		world:   world,
	}
}

// Handle executes the GetBreakdown query
func (h *GetBreakdownHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetBreakdownQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBreakdownQuery")
	}

	g := h.goals.Active()
	if query.PresetID != "" {
		preset, found := h.goals.Preset(query.PresetID)
		if !found {
			return nil, &goal.ErrUnknownPreset{ID: query.PresetID}
		}
		g = preset
	}

	// Targets are derived from the world without touching the goal's published state
	view := h.world.Current()
	targets := g.Parts()
	if rule := g.Rule(); rule != nil {
		targets = rule(view.WorldState(), targets)
	}

	roots, problems := h.builder.Build(targets, view)

	return &GetBreakdownResponse{
		GoalID:   g.ID(),
		Roots:    roots,
		Problems: problems,
	}, nil
}
