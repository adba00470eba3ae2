package sim

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics collection for
// simulation execution, adapted from the teacher's engine metrics with
// the concurrency-specific gauges (inflight nodes, queue depth,
// backpressure) dropped: the stepper is single-threaded and synchronous,
// so there is no queue to saturate.
//
// Metrics exposed (all namespaced with "devsim_"):
//
// 1. step_latency_ms (histogram): Wall-clock duration of a single Step call.
//    Labels: run_id, status (success/error).
//
// 2. global_time (gauge): Current simulated time.
//    Labels: run_id.
//
// 3. pending_messages (gauge): Size of the pending message set after a step.
//    Labels: run_id.
//
// 4. messages_routed_total (counter): Cumulative count of messages produced
//    by routing during the internal phase.
//    Labels: run_id.
//
// 5. checker_failures_total (counter): Cumulative Checker pass failures.
//    Labels: run_id, check (the failing pass's name).
//
// 6. model_event_errors_total (counter): Cumulative EventsExt/EventsInt
//    failures.
//    Labels: run_id, model_id, phase (ext/int).
type PrometheusMetrics struct {
	stepLatency      *prometheus.HistogramVec
	globalTime       *prometheus.GaugeVec
	pendingMessages  *prometheus.GaugeVec
	messagesRouted   *prometheus.CounterVec
	checkerFailures  *prometheus.CounterVec
	modelEventErrors *prometheus.CounterVec

	registry prometheus.Registerer
	mu       sync.RWMutex
	enabled  bool
}

// NewPrometheusMetrics creates and registers all simulation metrics with
// the provided Prometheus registry. A nil registry uses
// prometheus.DefaultRegisterer.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	pm := &PrometheusMetrics{
		registry: registry,
		enabled:  true,
	}

	pm.stepLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "devsim",
		Name:      "step_latency_ms",
		Help:      "Duration of a single Simulation.Step call in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"run_id", "status"})

	pm.globalTime = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "devsim",
		Name:      "global_time",
		Help:      "Current simulated time",
	}, []string{"run_id"})

	pm.pendingMessages = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "devsim",
		Name:      "pending_messages",
		Help:      "Size of the pending message set after the most recent step",
	}, []string{"run_id"})

	pm.messagesRouted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devsim",
		Name:      "messages_routed_total",
		Help:      "Cumulative count of messages produced by routing during the internal phase",
	}, []string{"run_id"})

	pm.checkerFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devsim",
		Name:      "checker_failures_total",
		Help:      "Cumulative count of Checker.Check failures by check name",
	}, []string{"run_id", "check"})

	pm.modelEventErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devsim",
		Name:      "model_event_errors_total",
		Help:      "Cumulative count of EventsExt/EventsInt failures by model and phase",
	}, []string{"run_id", "model_id", "phase"})

	return pm
}

// RecordStepLatency records the duration of one Step call.
func (pm *PrometheusMetrics) RecordStepLatency(runID string, latency time.Duration, status string) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.stepLatency.WithLabelValues(runID, status).Observe(float64(latency.Microseconds()) / 1000.0)
}

// SetGlobalTime records the simulation's current global time.
func (pm *PrometheusMetrics) SetGlobalTime(runID string, t float64) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.globalTime.WithLabelValues(runID).Set(t)
}

// SetPendingMessages records the size of the pending message set.
func (pm *PrometheusMetrics) SetPendingMessages(runID string, n int) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.pendingMessages.WithLabelValues(runID).Set(float64(n))
}

// AddMessagesRouted increments the routed-message counter by n.
func (pm *PrometheusMetrics) AddMessagesRouted(runID string, n int) {
	if pm == nil || !pm.enabled || n == 0 {
		return
	}
	pm.messagesRouted.WithLabelValues(runID).Add(float64(n))
}

// IncrementCheckerFailures increments the checker-failure counter for the
// named check (e.g. "unique_model_ids", "connectors_source_to_model").
func (pm *PrometheusMetrics) IncrementCheckerFailures(runID, check string) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.checkerFailures.WithLabelValues(runID, check).Inc()
}

// IncrementModelEventErrors increments the model-event-error counter for
// the given model and phase ("ext" or "int").
func (pm *PrometheusMetrics) IncrementModelEventErrors(runID, modelID, phase string) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.modelEventErrors.WithLabelValues(runID, modelID, phase).Inc()
}

// Disable stops all metric recording without unregistering collectors.
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable resumes metric recording.
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}
