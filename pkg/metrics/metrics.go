// Package metrics provides Prometheus instrumentation for parflow pools.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job kinds used as the "kind" label of fork-join metrics.
const (
	KindRun    = "run"
	KindReduce = "reduce"
)

// Registry holds all metric instances for parflow components.
type Registry struct {
	// Fork-join Metrics
	ForkJoinCycles        *prometheus.CounterVec
	ForkJoinInline        *prometheus.CounterVec
	ForkJoinCycleDuration *prometheus.HistogramVec
	ForkJoinParticipants  *prometheus.HistogramVec
	ForkJoinWorkers       *prometheus.GaugeVec

	// Background Pool Metrics
	BackgroundWorkers         *prometheus.GaugeVec
	BackgroundTasks           *prometheus.GaugeVec
	BackgroundTaskInvocations *prometheus.CounterVec
	BackgroundTaskPanics      *prometheus.CounterVec
	BackgroundExecs           *prometheus.CounterVec
	BackgroundExecDuration    *prometheus.HistogramVec
	BackgroundDisperses       *prometheus.CounterVec
	BackgroundDisperseWait    *prometheus.HistogramVec
}

// DefaultRegistry is the default metrics registry used by parflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
// Registering twice against the same registerer panics; use FromConfig to share.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Fork-join Metrics
		ForkJoinCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "forkjoin",
				Name:      "cycles_total",
				Help:      "Total number of dispatched fork-join cycles",
			},
			[]string{"pool", "kind"},
		),

		ForkJoinInline: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "forkjoin",
				Name:      "inline_total",
				Help:      "Total number of calls executed inline on the caller",
			},
			[]string{"pool", "kind"},
		),

		ForkJoinCycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parflow",
				Subsystem: "forkjoin",
				Name:      "cycle_duration_seconds",
				Help:      "Time from dispatch to barrier release",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"pool", "kind"},
		),

		ForkJoinParticipants: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parflow",
				Subsystem: "forkjoin",
				Name:      "participants",
				Help:      "Participants engaged per dispatched cycle, caller included",
				Buckets:   prometheus.ExponentialBuckets(2, 2, 8),
			},
			[]string{"pool"},
		),

		ForkJoinWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "parflow",
				Subsystem: "forkjoin",
				Name:      "workers",
				Help:      "Worker threads owned by the pool, caller excluded",
			},
			[]string{"pool"},
		),

		// Background Pool Metrics
		BackgroundWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "workers",
				Help:      "Worker threads owned by the pool",
			},
			[]string{"pool"},
		),

		BackgroundTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "tasks",
				Help:      "Repeating tasks currently registered",
			},
			[]string{"pool"},
		),

		BackgroundTaskInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "task_invocations_total",
				Help:      "Total number of task invocations",
			},
			[]string{"pool"},
		),

		BackgroundTaskPanics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "task_panics_total",
				Help:      "Total number of recovered task panics",
			},
			[]string{"pool"},
		),

		BackgroundExecs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "execs_total",
				Help:      "Total number of exec broadcasts",
			},
			[]string{"pool"},
		),

		BackgroundExecDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "exec_duration_seconds",
				Help:      "Time from exec publication to the last worker acknowledgement",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool"},
		),

		BackgroundDisperses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "disperse_total",
				Help:      "Total number of task list mutations that dispersed the workers",
			},
			[]string{"pool"},
		),

		BackgroundDisperseWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parflow",
				Subsystem: "background",
				Name:      "disperse_wait_seconds",
				Help:      "Time a mutation waited for scanning workers to leave the task list",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"pool"},
		),
	}
}

// ObserveCycle records one dispatched fork-join cycle.
func (r *Registry) ObserveCycle(pool, kind string, participants int, d time.Duration) {
	if r == nil {
		return
	}
	r.ForkJoinCycles.WithLabelValues(pool, kind).Inc()
	r.ForkJoinCycleDuration.WithLabelValues(pool, kind).Observe(d.Seconds())
	r.ForkJoinParticipants.WithLabelValues(pool).Observe(float64(participants))
}

// CountInline records a fork-join call that bypassed dispatch.
func (r *Registry) CountInline(pool, kind string) {
	if r == nil {
		return
	}
	r.ForkJoinInline.WithLabelValues(pool, kind).Inc()
}

// SetForkJoinWorkers publishes the fork-join worker count.
func (r *Registry) SetForkJoinWorkers(pool string, n int) {
	if r == nil {
		return
	}
	r.ForkJoinWorkers.WithLabelValues(pool).Set(float64(n))
}

// SetBackgroundWorkers publishes the background worker count.
func (r *Registry) SetBackgroundWorkers(pool string, n int) {
	if r == nil {
		return
	}
	r.BackgroundWorkers.WithLabelValues(pool).Set(float64(n))
}

// SetBackgroundTasks publishes the registered task count.
func (r *Registry) SetBackgroundTasks(pool string, n int) {
	if r == nil {
		return
	}
	r.BackgroundTasks.WithLabelValues(pool).Set(float64(n))
}

// AddTaskInvocations adds n task invocations.
func (r *Registry) AddTaskInvocations(pool string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.BackgroundTaskInvocations.WithLabelValues(pool).Add(float64(n))
}

// CountTaskPanic records a recovered task panic.
func (r *Registry) CountTaskPanic(pool string) {
	if r == nil {
		return
	}
	r.BackgroundTaskPanics.WithLabelValues(pool).Inc()
}

// ObserveExec records a completed exec broadcast.
func (r *Registry) ObserveExec(pool string, d time.Duration) {
	if r == nil {
		return
	}
	r.BackgroundExecs.WithLabelValues(pool).Inc()
	r.BackgroundExecDuration.WithLabelValues(pool).Observe(d.Seconds())
}

// ObserveDisperse records a task list mutation and how long it waited.
func (r *Registry) ObserveDisperse(pool string, wait time.Duration) {
	if r == nil {
		return
	}
	r.BackgroundDisperses.WithLabelValues(pool).Inc()
	r.BackgroundDisperseWait.WithLabelValues(pool).Observe(wait.Seconds())
}
