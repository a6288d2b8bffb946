// Package metrics provides Prometheus instrumentation for goprim components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for goprim components.
type Registry struct {
	// Channel Metrics
	ChannelSends            *prometheus.CounterVec
	ChannelReceives         *prometheus.CounterVec
	ChannelLockAcquisitions *prometheus.CounterVec
	ChannelSwaps            *prometheus.CounterVec
	ChannelSenders          *prometheus.GaugeVec
	ChannelQueued           *prometheus.GaugeVec
	ChannelRecvWait         *prometheus.HistogramVec

	// Worker Pool Metrics
	WorkerPoolSize   *prometheus.GaugeVec
	WorkerPoolActive *prometheus.GaugeVec
	WorkerPoolQueued *prometheus.GaugeVec
	TasksCompleted   *prometheus.CounterVec
	TasksFailed      *prometheus.CounterVec
	TaskDuration     *prometheus.HistogramVec

	// Scheduler Metrics
	JobsScheduled *prometheus.GaugeVec
	JobRuns       *prometheus.CounterVec

	// Bridge Metrics
	BridgeMessages *prometheus.CounterVec
	BridgeErrors   *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by goprim components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	config := DefaultConfig()
	config.Registry = reg
	return NewRegistryWithConfig(config)
}

// NewRegistryWithConfig creates a metrics registry honoring the namespace and
// constant labels of config. A nil config.Registry registers nowhere, which
// keeps the collectors usable without exposing them.
func NewRegistryWithConfig(config Config) *Registry {
	factory := promauto.With(config.Registry)
	ns := config.Namespace
	if ns == "" {
		ns = DefaultConfig().Namespace
	}
	labels := config.Labels

	counter := func(subsystem, name, help string, labelNames ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames)
	}
	gauge := func(subsystem, name, help string, labelNames ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames)
	}
	histogram := func(subsystem, name, help string, labelNames ...string) *prometheus.HistogramVec {
		return factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, labelNames)
	}

	return &Registry{
		ChannelSends: counter("channel", "sends_total",
			"Total number of values sent", "channel_name"),
		ChannelReceives: counter("channel", "receives_total",
			"Total number of values received, by path (staged or queue)", "channel_name", "path"),
		ChannelLockAcquisitions: counter("channel", "lock_acquisitions_total",
			"Total number of shared-state lock acquisitions", "channel_name"),
		ChannelSwaps: counter("channel", "buffer_swaps_total",
			"Total number of shared queue swaps into a receiver staging buffer", "channel_name"),
		ChannelSenders: gauge("channel", "senders",
			"Number of live sender handles", "channel_name"),
		ChannelQueued: gauge("channel", "queued",
			"Number of values in the shared queue", "channel_name"),
		ChannelRecvWait: histogram("channel", "recv_wait_seconds",
			"Time receivers spent parked waiting for data or closure", "channel_name"),

		WorkerPoolSize: gauge("workerpool", "size",
			"Current worker pool size", "pool_name"),
		WorkerPoolActive: gauge("workerpool", "active_workers",
			"Number of active workers", "pool_name"),
		WorkerPoolQueued: gauge("workerpool", "queued_tasks",
			"Number of queued tasks", "pool_name"),
		TasksCompleted: counter("workerpool", "tasks_completed_total",
			"Total number of tasks completed successfully", "pool_name"),
		TasksFailed: counter("workerpool", "tasks_failed_total",
			"Total number of tasks that failed or panicked", "pool_name"),
		TaskDuration: histogram("workerpool", "task_duration_seconds",
			"Time spent executing tasks", "pool_name"),

		JobsScheduled: gauge("scheduler", "jobs",
			"Number of jobs currently scheduled", "scheduler_name"),
		JobRuns: counter("scheduler", "job_runs_total",
			"Total number of job runs that produced a value", "scheduler_name", "job_id"),

		BridgeMessages: counter("bridge", "messages_total",
			"Total number of messages moved, by direction (forward or feed)", "bridge_name", "direction"),
		BridgeErrors: counter("bridge", "errors_total",
			"Total number of bridge errors, by direction", "bridge_name", "direction"),
	}
}
