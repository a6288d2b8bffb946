package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	gperrors "github.com/vnykmshr/goprim/pkg/common/errors"
	"github.com/vnykmshr/goprim/pkg/common/validation"
	"github.com/vnykmshr/goprim/pkg/messaging/mpsc"
	"github.com/vnykmshr/goprim/pkg/metrics"
)

var (
	// ErrStopped is returned when scheduling on a stopped Scheduler.
	ErrStopped = fmt.Errorf("scheduler: %w", gperrors.ErrClosed)

	// ErrJobExists is returned when scheduling an ID that is already in use.
	ErrJobExists = errors.New("scheduler: job already exists")

	// ErrJobNotFound is returned for an unknown job ID.
	ErrJobNotFound = errors.New("scheduler: job not found")
)

// ProduceFunc builds the value to send for a run at the given time. Returning
// false skips the send for that run.
type ProduceFunc[T any] func(at time.Time) (T, bool)

// Config holds scheduler configuration.
type Config struct {
	// Name identifies the scheduler in logs and metrics.
	Name string

	// Location is the time zone cron expressions are evaluated in.
	// Defaults to time.Local.
	Location *time.Location

	// Metrics receives scheduler instrumentation. Nil disables metrics.
	Metrics *metrics.Registry

	// Logger receives job lifecycle events and recovered panics.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Name:     "default",
		Location: time.Local,
		Logger:   logrus.StandardLogger(),
	}
}

// JobInfo describes a scheduled job.
type JobInfo struct {
	ID         string
	Expression string // empty for jobs added with ScheduleFunc
	Next       time.Time
	Runs       int64
}

type job[T any] struct {
	id       string
	expr     string
	schedule cron.Schedule
	entry    cron.EntryID

	// serial orders runs of the job so values arrive in schedule order.
	serial sync.Mutex

	// mu guards tx, closed and running. produce runs outside it; the last
	// run to finish after close closes tx.
	mu      sync.Mutex
	tx      *mpsc.Sender[T]
	closed  bool
	running int
	runs    atomic.Int64
}

// Scheduler sends values into an mpsc channel on cron schedules. Every job
// holds its own clone of the Sender, so the channel stays open while any job
// is scheduled or the Scheduler itself is running.
type Scheduler[T any] struct {
	config Config
	log    logrus.FieldLogger
	parser cron.Parser
	cron   *cron.Cron

	mu      sync.Mutex
	tx      *mpsc.Sender[T]
	jobs    map[string]*job[T]
	stopped bool

	jobsGauge prometheus.Gauge
}

// New creates a scheduler with default configuration that owns tx.
// It panics if tx is nil.
func New[T any](tx *mpsc.Sender[T]) *Scheduler[T] {
	s, err := NewWithConfig(tx, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}

// NewWithConfig creates a scheduler that owns tx. tx is closed by Stop.
func NewWithConfig[T any](tx *mpsc.Sender[T], config Config) (*Scheduler[T], error) {
	if tx == nil {
		return nil, validation.ValidateNotNil("scheduler", "Sender", nil)
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Name == "" {
		config.Name = "default"
	}

	log := config.Logger.WithField("scheduler", config.Name)
	cronLog := cron.PrintfLogger(log)

	s := &Scheduler[T]{
		config: config,
		log:    log,
		// Six fields with seconds, plus descriptors such as @every and @daily.
		parser: cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		tx:     tx,
		jobs:   make(map[string]*job[T]),
	}
	s.cron = cron.New(
		cron.WithParser(s.parser),
		cron.WithLocation(config.Location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)
	if config.Metrics != nil {
		s.jobsGauge = config.Metrics.JobsScheduled.WithLabelValues(config.Name)
	}
	return s, nil
}

// Schedule adds a job that calls produce and sends its value whenever the
// cron expression fires. Expressions have six fields, starting with seconds.
func (s *Scheduler[T]) Schedule(id, expr string, produce ProduceFunc[T]) error {
	if err := validation.ValidateNotEmpty("scheduler", "expression", expr); err != nil {
		return err
	}
	schedule, err := s.parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	return s.add(id, expr, schedule, produce)
}

// ScheduleFunc adds a job driven by an arbitrary cron.Schedule.
func (s *Scheduler[T]) ScheduleFunc(id string, schedule cron.Schedule, produce ProduceFunc[T]) error {
	if schedule == nil {
		return validation.ValidateNotNil("scheduler", "schedule", nil)
	}
	return s.add(id, "", schedule, produce)
}

func (s *Scheduler[T]) add(id, expr string, schedule cron.Schedule, produce ProduceFunc[T]) error {
	if err := validation.ValidateNotEmpty("scheduler", "id", id); err != nil {
		return err
	}
	if produce == nil {
		return validation.ValidateNotNil("scheduler", "produce", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if _, ok := s.jobs[id]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, id)
	}

	j := &job[T]{
		id:       id,
		expr:     expr,
		schedule: schedule,
		tx:       s.tx.Clone(),
	}
	j.entry = s.cron.Schedule(schedule, cron.FuncJob(func() { s.run(j, produce) }))
	s.jobs[id] = j
	s.updateJobs()

	s.log.WithField("job", id).Debug("job scheduled")
	return nil
}

func (s *Scheduler[T]) run(j *job[T], produce ProduceFunc[T]) {
	if !j.begin() {
		return
	}
	j.serial.Lock()
	defer j.serial.Unlock()

	var (
		v  T
		ok bool
	)
	defer func() { j.finish(v, ok) }()

	if j.isClosed() {
		return
	}
	v, ok = produce(time.Now().In(s.config.Location))
	j.runs.Add(1)
	if s.config.Metrics != nil {
		s.config.Metrics.JobRuns.WithLabelValues(s.config.Name, j.id).Inc()
	}
}

func (j *job[T]) begin() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return false
	}
	j.running++
	return true
}

func (j *job[T]) isClosed() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closed
}

// finish delivers a produced value unless the job was closed meanwhile, and
// closes tx if this was the last run of a closed job.
func (j *job[T]) finish(v T, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.running--
	if ok && !j.closed {
		j.tx.Send(v)
	}
	if j.closed && j.running == 0 {
		j.tx.Close()
	}
}

// Unschedule removes the job and closes its Sender. A run already in
// progress finishes in the background, drops its value and closes the
// Sender when it returns.
func (s *Scheduler[T]) Unschedule(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
		s.cron.Remove(j.entry)
		s.updateJobs()
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	j.close()
	s.log.WithField("job", id).Debug("job unscheduled")
	return nil
}

// close marks the job closed without waiting for runs in progress.
func (j *job[T]) close() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	j.closed = true
	if j.running == 0 {
		j.tx.Close()
	}
}

// Next returns the next time the job will run.
func (s *Scheduler[T]) Next(id string) (time.Time, error) {
	s.mu.Lock()
	j, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	// Entries only carry a next time once the cron runner has started.
	if next := s.cron.Entry(j.entry).Next; !next.IsZero() {
		return next, nil
	}
	return j.schedule.Next(time.Now().In(s.config.Location)), nil
}

// Jobs returns the scheduled jobs sorted by ID.
func (s *Scheduler[T]) Jobs() []JobInfo {
	s.mu.Lock()
	jobs := make([]*job[T], 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	infos := make([]JobInfo, 0, len(jobs))
	for _, j := range jobs {
		next, _ := s.Next(j.id)
		infos = append(infos, JobInfo{
			ID:         j.id,
			Expression: j.expr,
			Next:       next,
			Runs:       j.runs.Load(),
		})
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].ID < infos[b].ID })
	return infos
}

// Start begins running jobs. Starting a running scheduler is a no-op.
func (s *Scheduler[T]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs to return or ctx to
// end. Every job Sender and the Scheduler's own are closed, so receivers
// observe closure once the last run returns. If ctx ends first, Stop returns
// ctx.Err() without waiting; runs still in progress drop their values.
func (s *Scheduler[T]) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	jobs := s.jobs
	s.jobs = make(map[string]*job[T])
	s.updateJobs()
	s.mu.Unlock()

	var err error
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		err = ctx.Err()
	}

	for _, j := range jobs {
		j.close()
	}
	s.tx.Close()

	s.log.WithField("jobs", len(jobs)).Debug("scheduler stopped")
	return err
}

func (s *Scheduler[T]) updateJobs() {
	if s.jobsGauge != nil {
		s.jobsGauge.Set(float64(len(s.jobs)))
	}
}
