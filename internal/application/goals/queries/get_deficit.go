package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// GetDeficitQuery reads the last completed deficit of the active goal
type GetDeficitQuery struct {
	// IncludeSatisfied keeps zero entries; display surfaces omit them
	IncludeSatisfied bool
}

// DeficitItemDTO is one missing item
type DeficitItemDTO struct {
	Item    string
	Label   string
	Missing int
}

// GetDeficitResponse is the display view of a deficit
type GetDeficitResponse struct {
	GoalID     string
	GoalLabel  string
	Mode       string
	ComputedAt time.Time
	Items      []DeficitItemDTO
	Total      int
}

// GetDeficitHandler handles the GetDeficit query
type GetDeficitHandler struct {
	goals *services.GoalRegistry
	index *services.RecipeIndex
}

// NewGetDeficitHandler creates a new GetDeficitHandler
func NewGetDeficitHandler(goals *services.GoalRegistry, index *services.RecipeIndex) *GetDeficitHandler {
	return &GetDeficitHandler{
		goals: goals,
		index: index,
	}
}

// Handle executes the GetDeficit query
func (h *GetDeficitHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetDeficitQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDeficitQuery")
	}

	// Load the goal once so the deficit and its label belong together
	active := h.goals.Active()
	deficit := active.Deficit()

	entries := deficit.Outstanding()
	if query.IncludeSatisfied {
		entries = deficit.Entries()
	}

	items := make([]DeficitItemDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, DeficitItemDTO{
			Item:    string(entry.Item),
			Label:   itemLabel(h.index.Registry(), entry.Item),
			Missing: entry.Count,
		})
	}

	return &GetDeficitResponse{
		GoalID:     active.ID(),
		GoalLabel:  active.Label(),
		Mode:       string(h.goals.Mode()),
		ComputedAt: h.goals.ComputedAt(),
		Items:      items,
		Total:      deficit.Total(),
	}, nil
}

func itemLabel(registry goods.ItemRegistry, item goods.ItemType) string {
	if registry != nil {
		if def, ok := registry.Item(item); ok {
			return def.DisplayLabel()
		}
	}
	return string(item)
}
