package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "goaltracker"
	// Subsystem for tracker metrics
	subsystem = "tracker"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalGoalCollector is the singleton goal metrics collector
	// Set by SetGlobalGoalCollector() when metrics are enabled
	globalGoalCollector GoalMetricsRecorder

	// globalHTTPCollector records throttled triggers for the scheduler
	globalHTTPCollector *HTTPMetricsCollector
)

// GoalMetricsRecorder defines the interface for recording goal tracking metrics.
// Application code records through the package-level functions below.
type GoalMetricsRecorder interface {
	RecordRecompute(goalID, trigger string, duration time.Duration, outstanding map[string]int)
	RecordRecipeLookup(hit bool)
	RecordGoalSwitch(fromGoalID, toGoalID string)
	RecordRegistryReload(success bool)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalGoalCollector sets the global goal metrics collector
func SetGlobalGoalCollector(collector GoalMetricsRecorder) {
	globalGoalCollector = collector
}

// SetGlobalHTTPCollector sets the collector used by RecordTriggerThrottled
func SetGlobalHTTPCollector(collector *HTTPMetricsCollector) {
	globalHTTPCollector = collector
}

// RecordTriggerThrottled records a recompute trigger dropped by the rate limiter globally
func RecordTriggerThrottled(source string) {
	if globalHTTPCollector != nil {
		globalHTTPCollector.RecordTriggerThrottled(source)
	}
}

// RecordRecompute records a finished deficit recompute globally
func RecordRecompute(goalID, trigger string, duration time.Duration, outstanding map[string]int) {
	if globalGoalCollector != nil {
		globalGoalCollector.RecordRecompute(goalID, trigger, duration, outstanding)
	}
}

// RecordRecipeLookup records a recipe index cache hit or miss globally
func RecordRecipeLookup(hit bool) {
	if globalGoalCollector != nil {
		globalGoalCollector.RecordRecipeLookup(hit)
	}
}

// RecordGoalSwitch records a change of the active goal globally
func RecordGoalSwitch(fromGoalID, toGoalID string) {
	if globalGoalCollector != nil {
		globalGoalCollector.RecordGoalSwitch(fromGoalID, toGoalID)
	}
}

// RecordRegistryReload records an item registry reload globally
func RecordRegistryReload(success bool) {
	if globalGoalCollector != nil {
		globalGoalCollector.RecordRegistryReload(success)
	}
}
