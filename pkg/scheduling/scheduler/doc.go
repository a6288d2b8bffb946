/*
Package scheduler produces values into an mpsc channel on cron schedules.

A Scheduler owns a Sender. Each scheduled job holds its own clone of it, so
a Receiver on the other end keeps reading until the Scheduler is stopped and
every job is gone:

	tx, rx := mpsc.New[Report]()
	s := scheduler.New(tx)

	s.Schedule("nightly", "0 0 2 * * *", func(at time.Time) (Report, bool) {
		return Report{Day: at}, true
	})
	s.Start()
	defer s.Stop(context.Background())

	for report := range rx.All() {
		publish(report)
	}

Expressions:

Expressions have six fields, with seconds first:

	"0/10 * * * * *"  - every 10 seconds
	"0 30 14 * * 1-5" - 2:30 PM on weekdays
	"@daily"          - every day at midnight
	"@every 1m30s"    - every 90 seconds

ScheduleFunc accepts any cron.Schedule for intervals the syntax cannot
express.

Lifecycle:

Unschedule removes a job and closes its Sender. Stop halts the cron runner,
waits for in-flight runs until its context ends, and closes every job Sender
and the Scheduler's own, so receivers observe closure. A run still in
progress when the job is closed drops its value and releases the Sender on
return. A ProduceFunc that panics is recovered
and logged; the job stays scheduled.
*/
package scheduler
