package tracker

import (
	"context"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/presets"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/registry"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/world"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
)

// Options carries the optional collaborators of a tracker
type Options struct {
	CacheRepo  goods.RecipeCacheRepository
	StateRepo  goal.StateRepository
	Clock      shared.Clock
	Middleware []mediator.Middleware
}

// Tracker is a fully wired goal tracker: registry, world, presets and the
// mediator with every goal handler registered.
type Tracker struct {
	Mediator mediator.Mediator
	Index    *services.RecipeIndex
	Goals    *services.GoalRegistry
	World    *world.FileSource
}

// Build loads the registry, world snapshot and presets named by cfg.
//
// A missing or invalid world snapshot is not fatal; the tracker starts from an
// empty world and the next reload fills it in.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Tracker, error) {
	logger := common.LoggerFromContext(ctx)

	reg, err := registry.LoadFile(cfg.Registry.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	for _, problem := range reg.Validate() {
		logger.Log(common.LevelWarn, "Registry data problem", map[string]interface{}{
			"error": problem.Error(),
		})
	}

	index := services.NewRecipeIndex(reg)

	worldSource := world.NewFileSource(cfg.Tracker.WorldPath, index.Registry)
	if cfg.Tracker.WorldPath != "" {
		// Reload logs the failure itself
		_ = worldSource.Reload(ctx)
	}

	presetGoals, err := presets.Load(cfg.Presets)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}

	aggregator := services.NewCostAggregator(index, services.ModeFromDeepSum(cfg.Tracker.DeepSum))
	goalRegistry, err := services.NewGoalRegistry(aggregator, worldSource, presetGoals, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal registry: %w", err)
	}

	if cfg.Presets.Default != "" && cfg.Presets.Default != goalRegistry.Active().ID() {
		if err := goalRegistry.SwitchToPreset(ctx, cfg.Presets.Default); err != nil {
			return nil, fmt.Errorf("invalid default preset: %w", err)
		}
	}

	m := mediator.NewMediator()
	for _, mw := range opts.Middleware {
		m.RegisterMiddleware(mw)
	}

	err = goals.RegisterHandlers(m, goals.Dependencies{
		Index:     index,
		Goals:     goalRegistry,
		World:     worldSource,
		CacheRepo: opts.CacheRepo,
		StateRepo: opts.StateRepo,
		Instance:  cfg.Tracker.Instance,
		Clock:     clock,
	})
	if err != nil {
		return nil, err
	}

	logger.Log(common.LevelInfo, "Tracker assembled", map[string]interface{}{
		"fingerprint": reg.Fingerprint(),
		"items":       len(reg.Items()),
		"recipes":     len(reg.Recipes()),
		"presets":     len(presetGoals),
		"mode":        string(aggregator.Mode()),
		"active_goal": goalRegistry.Active().ID(),
	})

	return &Tracker{
		Mediator: m,
		Index:    index,
		Goals:    goalRegistry,
		World:    worldSource,
	}, nil
}
