package scheduler

import (
	"context"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"golang.org/x/time/rate"
)

// TickScheduler drives deficit recomputes: one per interval, plus out-of-band
// recomputes when a source reports a change. Out-of-band triggers are rate
// limited; a throttled trigger is covered by the next regular tick.
type TickScheduler struct {
	mediator mediator.Mediator
	interval time.Duration
	limiter  *rate.Limiter
	triggers chan string
}

// NewTickScheduler creates a scheduler. triggersPerSecond and burst bound out-of-band recomputes.
func NewTickScheduler(m mediator.Mediator, interval time.Duration, triggersPerSecond float64, burst int) *TickScheduler {
	if burst < 1 {
		burst = 1
	}
	return &TickScheduler{
		mediator: m,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Limit(triggersPerSecond), burst),
		triggers: make(chan string, 1),
	}
}

// Trigger requests an immediate recompute. It never blocks and returns false
// when the request was throttled or one is already queued.
func (s *TickScheduler) Trigger(source string) bool {
	if !s.limiter.Allow() {
		metrics.RecordTriggerThrottled(source)
		return false
	}
	select {
	case s.triggers <- source:
		return true
	default:
		return false
	}
}

// Run recomputes once immediately, then on every tick and trigger until ctx is cancelled
func (s *TickScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx, services.TriggerTick)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx, services.TriggerTick)
		case source := <-s.triggers:
			s.tick(ctx, source)
		}
	}
}

func (s *TickScheduler) tick(ctx context.Context, trigger string) {
	if _, err := s.mediator.Send(ctx, &commands.TickCommand{Trigger: trigger}); err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelError, "Recompute failed", map[string]interface{}{
			"trigger": trigger,
			"error":   err.Error(),
		})
	}
}
