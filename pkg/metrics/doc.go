// Package metrics provides Prometheus instrumentation for goprim components.
//
// # Overview
//
// A Registry bundles the metric vectors reported by:
//   - mpsc channels (sends, receives by path, lock acquisitions, buffer swaps,
//     live senders, queue length, receiver wait time)
//   - worker pools (size, active workers, queued tasks, completed and failed tasks)
//   - schedulers (scheduled jobs, job runs)
//   - Redis bridges (messages moved and errors by direction)
//
// # Quick Start
//
// Pass a Registry in the component configuration:
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	tx, rx := mpsc.NewWithConfig[Event](mpsc.Config{Name: "events", Metrics: reg})
//	pool, _ := workerpool.NewWithConfig(workerpool.Config{WorkerCount: 4, Name: "jobs", Metrics: reg})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
//   - goprim_channel_sends_total{channel_name}
//   - goprim_channel_receives_total{channel_name,path}
//   - goprim_channel_lock_acquisitions_total{channel_name}
//   - goprim_channel_buffer_swaps_total{channel_name}
//   - goprim_channel_senders{channel_name}
//   - goprim_channel_queued{channel_name}
//   - goprim_channel_recv_wait_seconds{channel_name}
//   - goprim_workerpool_size{pool_name}
//   - goprim_workerpool_active_workers{pool_name}
//   - goprim_workerpool_queued_tasks{pool_name}
//   - goprim_workerpool_tasks_completed_total{pool_name}
//   - goprim_workerpool_tasks_failed_total{pool_name}
//   - goprim_workerpool_task_duration_seconds{pool_name}
//   - goprim_scheduler_jobs{scheduler_name}
//   - goprim_scheduler_job_runs_total{scheduler_name,job_id}
//   - goprim_bridge_messages_total{bridge_name,direction}
//   - goprim_bridge_errors_total{bridge_name,direction}
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",
//		Labels:    prometheus.Labels{"version": "1.0"},
//	}
//	reg := metrics.FromConfig(config) // nil when Enabled is false
//
// Components treat a nil *Registry as "metrics disabled" and skip all updates.
package metrics
