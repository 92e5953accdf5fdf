package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

// PersistStateCommand saves the recipe cache and the active preset
type PersistStateCommand struct{}

// PersistStateResponse reports what was saved
type PersistStateResponse struct {
	Fingerprint  string
	CachedItems  int
	ActivePreset string
}

// RestoreStateCommand loads the recipe cache and re-activates the saved preset
type RestoreStateCommand struct{}

// RestoreStateResponse reports what was restored
type RestoreStateResponse struct {
	RestoredItems int
	ActivePreset  string
}

// StateHandler handles PersistState and RestoreState.
// Either repository may be nil, which skips that half of the state.
type StateHandler struct {
	index     *services.RecipeIndex
	goals     *services.GoalRegistry
	cacheRepo goods.RecipeCacheRepository
	stateRepo goal.StateRepository
	instance  string
	clock     shared.Clock
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(
	index *services.RecipeIndex,
	goals *services.GoalRegistry,
	cacheRepo goods.RecipeCacheRepository,
	stateRepo goal.StateRepository,
	instance string,
	clock shared.Clock,
) *StateHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StateHandler{
		index:     index,
		goals:     goals,
		cacheRepo: cacheRepo,
		stateRepo: stateRepo,
		instance:  instance,
		clock:     clock,
	}
}

// Handle executes PersistState or RestoreState
func (h *StateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch request.(type) {
	case *PersistStateCommand:
		return h.persist(ctx)
	case *RestoreStateCommand:
		return h.restore(ctx)
	default:
		return nil, fmt.Errorf("invalid request type: expected *PersistStateCommand or *RestoreStateCommand")
	}
}

func (h *StateHandler) persist(ctx context.Context) (*PersistStateResponse, error) {
	response := &PersistStateResponse{}

	if h.cacheRepo != nil {
		fingerprint := h.index.Registry().Fingerprint()
		entries := h.index.Export()
		if err := h.cacheRepo.Save(ctx, fingerprint, entries); err != nil {
			return nil, fmt.Errorf("failed to save recipe cache: %w", err)
		}
		response.Fingerprint = fingerprint
		response.CachedItems = len(entries)
	}

	if h.stateRepo != nil {
		active := h.goals.Active().ID()
		state := &goal.State{
			Instance:     h.instance,
			ActivePreset: active,
			UpdatedAt:    h.clock.Now(),
		}
		if err := h.stateRepo.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to save goal state: %w", err)
		}
		response.ActivePreset = active
	}

	return response, nil
}

func (h *StateHandler) restore(ctx context.Context) (*RestoreStateResponse, error) {
	logger := common.LoggerFromContext(ctx)
	response := &RestoreStateResponse{}

	if h.cacheRepo != nil {
		entries, err := h.cacheRepo.Load(ctx, h.index.Registry().Fingerprint())
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe cache: %w", err)
		}
		response.RestoredItems = h.index.Restore(entries)
	}

	if h.stateRepo != nil {
		state, err := h.stateRepo.Load(ctx, h.instance)
		if err != nil {
			return nil, fmt.Errorf("failed to load goal state: %w", err)
		}
		if state != nil && state.ActivePreset != "" {
			if err := h.goals.SwitchToPreset(ctx, state.ActivePreset); err != nil {
				// Presets may have been renamed since the state was saved
				logger.Log(common.LevelWarn, "Saved goal preset is no longer available", map[string]interface{}{
					"preset": state.ActivePreset,
					"error":  err.Error(),
				})
			} else {
				response.ActivePreset = state.ActivePreset
			}
		}
	}

	logger.Log(common.LevelInfo, "Tracker state restored", map[string]interface{}{
		"recipe_entries": response.RestoredItems,
		"active_preset":  response.ActivePreset,
	})

	return response, nil
}
