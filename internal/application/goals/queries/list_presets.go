package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// ListPresetsQuery lists the selectable goals
type ListPresetsQuery struct {
	// All includes presets the menu would hide
	All bool
}

// PresetDTO is one selectable goal
type PresetDTO struct {
	ID       string
	Label    string
	Selected bool
	Targets  []goods.ThingCount
}

// ListPresetsResponse contains the presets in menu order
type ListPresetsResponse struct {
	Presets []PresetDTO
}

// ListPresetsHandler handles the ListPresets query
type ListPresetsHandler struct {
	goals *services.GoalRegistry
}

// NewListPresetsHandler creates a new ListPresetsHandler
func NewListPresetsHandler(goals *services.GoalRegistry) *ListPresetsHandler {
	return &ListPresetsHandler{goals: goals}
}

// Handle executes the ListPresets query
func (h *ListPresetsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPresetsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPresetsQuery")
	}

	labels := make(map[string]services.PresetOption)
	for _, option := range h.goals.Menu() {
		labels[option.ID] = option
	}

	active := h.goals.Active()
	presets := make([]PresetDTO, 0, len(labels))
	for _, g := range h.goals.Presets() {
		option, listed := labels[g.ID()]
		if !listed {
			if !query.All {
				continue
			}
			option = services.PresetOption{ID: g.ID(), Label: g.Label()}
		}

		presets = append(presets, PresetDTO{
			ID:       g.ID(),
			Label:    option.Label,
			Selected: g == active,
			Targets:  g.Targets(),
		})
	}

	return &ListPresetsResponse{Presets: presets}, nil
}
