package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GoalMetricsCollector handles deficit recompute, recipe index and goal switch metrics
type GoalMetricsCollector struct {
	// Recompute metrics
	recomputesTotal   *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	outstandingItems  *prometheus.GaugeVec
	outstandingTotal  *prometheus.GaugeVec

	// Recipe index metrics
	recipeLookupsTotal *prometheus.CounterVec

	// Goal lifecycle metrics
	goalSwitchesTotal *prometheus.CounterVec
	activeGoal        *prometheus.GaugeVec
	registryReloads   *prometheus.CounterVec
}

// NewGoalMetricsCollector creates a new goal metrics collector
func NewGoalMetricsCollector() *GoalMetricsCollector {
	return &GoalMetricsCollector{
		recomputesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recomputes_total",
				Help:      "Total number of deficit recomputes by goal and trigger",
			},
			[]string{"goal_id", "trigger"},
		),

		recomputeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recompute_duration_seconds",
				Help:      "Deficit recompute duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"goal_id"},
		),

		// Outstanding amount per item of the most recent deficit
		outstandingItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deficit_outstanding",
				Help:      "Outstanding amount per item in the latest deficit",
			},
			[]string{"goal_id", "item"},
		),

		outstandingTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deficit_outstanding_total",
				Help:      "Sum of all outstanding amounts in the latest deficit",
			},
			[]string{"goal_id"},
		),

		recipeLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recipe_lookups_total",
				Help:      "Recipe index lookups by cache result",
			},
			[]string{"result"},
		),

		goalSwitchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goal_switches_total",
				Help:      "Total number of active goal switches",
			},
			[]string{"from_goal", "to_goal"},
		),

		activeGoal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_goal",
				Help:      "1 for the currently active goal",
			},
			[]string{"goal_id"},
		),

		registryReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "registry_reloads_total",
				Help:      "Item registry reloads by status",
			},
			[]string{"status"},
		),
	}
}

// Register registers all goal metrics with the Prometheus registry
func (c *GoalMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.recomputesTotal,
		c.recomputeDuration,
		c.outstandingItems,
		c.outstandingTotal,
		c.recipeLookupsTotal,
		c.goalSwitchesTotal,
		c.activeGoal,
		c.registryReloads,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordRecompute records a recompute and replaces the per-item deficit gauges of the goal
func (c *GoalMetricsCollector) RecordRecompute(goalID, trigger string, duration time.Duration, outstanding map[string]int) {
	c.recomputesTotal.WithLabelValues(goalID, trigger).Inc()
	c.recomputeDuration.WithLabelValues(goalID).Observe(duration.Seconds())

	// Items satisfied since the previous run must disappear from the gauge
	c.outstandingItems.DeletePartialMatch(prometheus.Labels{"goal_id": goalID})

	total := 0
	for item, amount := range outstanding {
		c.outstandingItems.WithLabelValues(goalID, item).Set(float64(amount))
		total += amount
	}
	c.outstandingTotal.WithLabelValues(goalID).Set(float64(total))
}

// RecordRecipeLookup records a recipe index cache hit or miss
func (c *GoalMetricsCollector) RecordRecipeLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.recipeLookupsTotal.WithLabelValues(result).Inc()
}

// RecordGoalSwitch records a change of the active goal
func (c *GoalMetricsCollector) RecordGoalSwitch(fromGoalID, toGoalID string) {
	c.goalSwitchesTotal.WithLabelValues(fromGoalID, toGoalID).Inc()
	if fromGoalID != "" {
		c.activeGoal.WithLabelValues(fromGoalID).Set(0)
	}
	c.activeGoal.WithLabelValues(toGoalID).Set(1)
}

// RecordRegistryReload records an item registry reload
func (c *GoalMetricsCollector) RecordRegistryReload(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.registryReloads.WithLabelValues(status).Inc()
}
