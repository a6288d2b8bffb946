/*
Package workerpool runs tasks on a fixed number of worker goroutines.

Tasks and results travel over mpsc channels. Submit appends to an unbounded
task channel and never blocks; each worker holds its own Receiver clone of
that channel and its own Sender clone of the result channel. Staging is
disabled on the task channel, so any idle worker picks up the next task.

Basic usage:

	pool, err := workerpool.New(4)
	if err != nil {
		return err
	}

	pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	}))

	<-pool.Shutdown()
	for result := range pool.Results().All() {
		if result.Error != nil {
			log.Printf("task failed: %v", result.Error)
		}
	}

Shutdown:

Shutdown stops accepting tasks and closes the pool's task Sender. Workers
drain whatever is queued, then close their result Senders, so the result
Receiver reports closure only after the last result has been delivered.
Submit after Shutdown returns ErrPoolClosed.

Errors and panics:

A task's returned error is reported in its Result. A panicking task is
recovered: the panic and stack trace become the Result's Error, the panic is
logged, and Config.PanicHandler is called if set. The worker keeps running.

Timeouts:

The context passed to SubmitWithContext reaches the task. Config.TaskTimeout,
when set, bounds each task further.

Observability:

Set Config.Metrics to record pool size, active workers, queued tasks,
completed and failed tasks, and task durations, along with the metrics of
the two underlying channels (named "<pool>-tasks" and "<pool>-results").
Worker lifecycle is logged at debug level through Config.Logger.
*/
package workerpool
