/*
Package scheduling groups the task execution components built on mpsc
channels.

  - workerpool: a fixed set of workers fed by an unbounded task channel
  - scheduler: cron jobs that produce values into a channel

Worker Pool:

	pool, err := workerpool.New(4)
	if err != nil {
		return err
	}
	pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		return nil
	}))
	<-pool.Shutdown()

Scheduler:

	tx, rx := mpsc.New[time.Time]()
	s := scheduler.New(tx)
	s.Schedule("tick", "0/5 * * * * *", func(at time.Time) (time.Time, bool) {
		return at, true
	})
	s.Start()

Both components can be chained: a scheduler's Receiver drained into a pool's
Submit runs cron-driven work on bounded concurrency.
*/
package scheduling
