package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the reconciliation engine.
type Metrics struct {
	PassesTotal     *prometheus.CounterVec
	MissionsCreated *prometheus.CounterVec
	MissionsUpdated *prometheus.CounterVec
	MissionsDeleted *prometheus.CounterVec
	PassErrors      *prometheus.CounterVec
	PassDuration    prometheus.Histogram
	TasksSaved      prometheus.Counter
	TasksFailed     prometheus.Counter
}

// New registers and returns the engine's metrics.
func New(namespace string) *Metrics {
	return &Metrics{
		PassesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_passes_total",
			Help:      "Reconciliation passes run, by kind and trigger",
		}, []string{"kind", "trigger"}),
		MissionsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_created_total",
			Help:      "Missions created by reconciliation, by kind",
		}, []string{"kind"}),
		MissionsUpdated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_updated_total",
			Help:      "Missions whose descriptive fields were updated, by kind",
		}, []string{"kind"}),
		MissionsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_deleted_total",
			Help:      "Orphaned missions deleted, by kind",
		}, []string{"kind"}),
		PassErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_errors_total",
			Help:      "Per-key errors recorded during passes, by kind",
		}, []string{"kind"}),
		PassDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_pass_duration_seconds",
			Help:      "Time taken by one reconciliation pass",
			Buckets:   prometheus.DefBuckets,
		}),
		TasksSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checklist_tasks_saved_total",
			Help:      "Checklist task writes that succeeded",
		}),
		TasksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checklist_tasks_failed_total",
			Help:      "Checklist task writes that failed",
		}),
	}
}

// RecordPass folds one pass outcome into the counters. Safe on a nil
// receiver so tests can run without a registry.
func (m *Metrics) RecordPass(
	kind, trigger string,
	created, updated, deleted, errs int,
	duration time.Duration,
) {
	if m == nil {
		return
	}
	m.PassesTotal.WithLabelValues(kind, trigger).Inc()
	m.MissionsCreated.WithLabelValues(kind).Add(float64(created))
	m.MissionsUpdated.WithLabelValues(kind).Add(float64(updated))
	m.MissionsDeleted.WithLabelValues(kind).Add(float64(deleted))
	m.PassErrors.WithLabelValues(kind).Add(float64(errs))
	m.PassDuration.Observe(duration.Seconds())
}

// RecordChecklistSave folds one checklist save outcome into the counters.
func (m *Metrics) RecordChecklistSave(saved, failed int) {
	if m == nil {
		return
	}
	m.TasksSaved.Add(float64(saved))
	m.TasksFailed.Add(float64(failed))
}
