package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// ReloadRegistryCommand starts a new recipe session over freshly loaded registry data
type ReloadRegistryCommand struct {
	Registry goods.ItemRegistry
}

// ReloadRegistryResponse reports the new session
type ReloadRegistryResponse struct {
	Fingerprint string
	SessionID   string
	Warnings    int
}

// ReloadRegistryHandler handles the ReloadRegistry command
type ReloadRegistryHandler struct {
	index *services.RecipeIndex
	goals *services.GoalRegistry
}

// NewReloadRegistryHandler creates a new ReloadRegistryHandler
func NewReloadRegistryHandler(index *services.RecipeIndex, goals *services.GoalRegistry) *ReloadRegistryHandler {
	return &ReloadRegistryHandler{
		index: index,
		goals: goals,
	}
}

// Handle executes the ReloadRegistry command
func (h *ReloadRegistryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReloadRegistryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReloadRegistryCommand")
	}
	if cmd.Registry == nil {
		metrics.RecordRegistryReload(false)
		return nil, fmt.Errorf("registry is required")
	}

	logger := common.LoggerFromContext(ctx)

	warnings := 0
	if validator, ok := cmd.Registry.(interface{ Validate() []error }); ok {
		for _, problem := range validator.Validate() {
			warnings++
			logger.Log(common.LevelWarn, "Registry data problem", map[string]interface{}{
				"error": problem.Error(),
			})
		}
	}

	h.index.Reset(cmd.Registry)
	h.goals.Recompute(ctx, services.TriggerRegistry)
	metrics.RecordRegistryReload(true)

	logger.Log(common.LevelInfo, "Registry reloaded", map[string]interface{}{
		"fingerprint": cmd.Registry.Fingerprint(),
		"session_id":  h.index.SessionID(),
		"warnings":    warnings,
	})

	return &ReloadRegistryResponse{
		Fingerprint: cmd.Registry.Fingerprint(),
		SessionID:   h.index.SessionID(),
		Warnings:    warnings,
	}, nil
}
