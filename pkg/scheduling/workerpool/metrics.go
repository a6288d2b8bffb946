package workerpool

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/goprim/pkg/metrics"
)

// instruments holds the pool's children of the registry vectors.
type instruments struct {
	size      prometheus.Gauge
	active    prometheus.Gauge
	queued    prometheus.Gauge
	completed prometheus.Counter
	failed    prometheus.Counter
	duration  prometheus.Observer
}

func newInstruments(reg *metrics.Registry, name string) *instruments {
	return &instruments{
		size:      reg.WorkerPoolSize.WithLabelValues(name),
		active:    reg.WorkerPoolActive.WithLabelValues(name),
		queued:    reg.WorkerPoolQueued.WithLabelValues(name),
		completed: reg.TasksCompleted.WithLabelValues(name),
		failed:    reg.TasksFailed.WithLabelValues(name),
		duration:  reg.TaskDuration.WithLabelValues(name),
	}
}

func (i *instruments) observe(result Result) {
	i.completed.Inc()
	if result.Error != nil {
		i.failed.Inc()
	}
	i.duration.Observe(result.Duration.Seconds())
}
