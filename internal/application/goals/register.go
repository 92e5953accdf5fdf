package goals

import (
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
)

// Dependencies are the services the goal handlers operate on.
// CacheRepo and StateRepo may be nil, which disables persistence.
type Dependencies struct {
	Index     *services.RecipeIndex
	Goals     *services.GoalRegistry
	World     inventory.WorldSource
	CacheRepo goods.RecipeCacheRepository
	StateRepo goal.StateRepository
	Instance  string
	Clock     shared.Clock
}

// RegisterHandlers registers every goal command and query with the mediator
func RegisterHandlers(m mediator.Mediator, d Dependencies) error {
	stateHandler := commands.NewStateHandler(d.Index, d.Goals, d.CacheRepo, d.StateRepo, d.Instance, d.Clock)
	builder := services.NewBreakdownBuilder(d.Index)

	registrations := []func() error{
		func() error {
			return mediator.RegisterHandler[*commands.TickCommand](m, commands.NewTickHandler(d.Goals))
		},
		func() error {
			return mediator.RegisterHandler[*commands.SwitchGoalCommand](m, commands.NewSwitchGoalHandler(d.Goals, d.StateRepo, d.Instance, d.Clock))
		},
		func() error {
			return mediator.RegisterHandler[*commands.ReloadRegistryCommand](m, commands.NewReloadRegistryHandler(d.Index, d.Goals))
		},
		func() error {
			return mediator.RegisterHandler[*commands.PersistStateCommand](m, stateHandler)
		},
		func() error {
			return mediator.RegisterHandler[*commands.RestoreStateCommand](m, stateHandler)
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetDeficitQuery](m, queries.NewGetDeficitHandler(d.Goals, d.Index))
		},
		func() error {
			return mediator.RegisterHandler[*queries.ListPresetsQuery](m, queries.NewListPresetsHandler(d.Goals))
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetBreakdownQuery](m, queries.NewGetBreakdownHandler(d.Goals, builder, d.World))
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register goal handler: %w", err)
		}
	}
	return nil
}
