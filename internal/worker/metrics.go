package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the worker's prometheus collectors.
type Metrics struct {
	leased    *prometheus.CounterVec
	deleted   *prometheus.CounterVec
	failed    *prometheus.CounterVec
	stitchJob *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the worker metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		leased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "queue_tasks_leased_total",
			Help: "Tasks leased from a pull queue.",
		}, []string{"queue"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "queue_tasks_deleted_total",
			Help: "Tasks acknowledged after successful handling.",
		}, []string{"queue"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "queue_task_failures_total",
			Help: "Tasks whose handler failed; they are redelivered after the lease.",
		}, []string{"queue"}),
		stitchJob: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stitch_jobs_total",
			Help: "Finished stitch jobs by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "queue_task_duration_seconds",
			Help:    "Time spent handling one task.",
			Buckets: []float64{.01, .1, .5, 1, 5, 15, 60, 300},
		}, []string{"queue"}),
	}

	for _, c := range []prometheus.Collector{m.leased, m.deleted, m.failed, m.stitchJob, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// nopMetrics is used when a component is built without metrics.
func nopMetrics() *Metrics {
	m, _ := NewMetrics(prometheus.NewRegistry())
	return m
}
