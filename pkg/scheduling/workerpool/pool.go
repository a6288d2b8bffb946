package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	gperrors "github.com/vnykmshr/goprim/pkg/common/errors"
	"github.com/vnykmshr/goprim/pkg/common/validation"
	"github.com/vnykmshr/goprim/pkg/messaging/mpsc"
	"github.com/vnykmshr/goprim/pkg/metrics"
)

// ErrPoolClosed is returned when submitting to a pool that has been shut down.
var ErrPoolClosed = fmt.Errorf("workerpool: %w", gperrors.ErrClosed)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the result of a task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Name identifies the pool in logs and metrics.
	Name string

	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// TaskTimeout is the default timeout for individual task execution.
	// Zero means no timeout.
	TaskTimeout time.Duration

	// PanicHandler is called when a task panics. The panic is always
	// recovered and reported in the task's Result.
	PanicHandler func(task Task, recovered interface{})

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization (e.g., database connections).
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	// Useful for per-worker cleanup.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)

	// Metrics receives pool instrumentation. Nil disables metrics.
	Metrics *metrics.Registry

	// Logger receives worker lifecycle events and task panics.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a default configuration with one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		WorkerCount: runtime.NumCPU(),
		Logger:      logrus.StandardLogger(),
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if err := validation.ValidatePositive("workerpool", "WorkerCount", c.WorkerCount); err != nil {
		return err
	}
	return validation.ValidateNonNegativeDuration("workerpool", "TaskTimeout", c.TaskTimeout)
}

// job is a queued task with the context it was submitted under.
type job struct {
	ctx  context.Context
	task Task
}

// Pool executes tasks on a fixed set of workers. Tasks travel over an
// unbounded mpsc channel, so Submit never blocks; results come back over a
// second channel that closes once every worker has exited.
type Pool struct {
	config Config
	log    logrus.FieldLogger
	inst   *instruments

	mu       sync.RWMutex
	tasks    *mpsc.Sender[job]
	shutdown bool
	done     chan struct{}

	results *mpsc.Receiver[Result]
	workers *conc.WaitGroup

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
}

// worker owns its own handles to both channels.
type worker struct {
	id      int
	pool    *Pool
	tasks   *mpsc.Receiver[job]
	results *mpsc.Sender[Result]
}

// New creates a new worker pool with the specified number of workers.
func New(workerCount int) (*Pool, error) {
	config := DefaultConfig()
	config.WorkerCount = workerCount
	return NewWithConfig(config)
}

// NewWithConfig creates a new worker pool with the specified configuration.
func NewWithConfig(config Config) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Name == "" {
		config.Name = "default"
	}

	// Staging is disabled on the task queue so an idle worker can take
	// any queued task instead of one worker holding the backlog.
	taskTx, taskRx := mpsc.NewWithConfig[job](mpsc.Config{
		Name:           config.Name + "-tasks",
		DisableStaging: true,
		Metrics:        config.Metrics,
		Logger:         config.Logger,
	})
	resultTx, resultRx := mpsc.NewWithConfig[Result](mpsc.Config{
		Name:    config.Name + "-results",
		Metrics: config.Metrics,
		Logger:  config.Logger,
	})

	pool := &Pool{
		config:  config,
		log:     config.Logger.WithField("pool", config.Name),
		tasks:   taskTx,
		done:    make(chan struct{}),
		results: resultRx,
		workers: conc.NewWaitGroup(),
	}
	if config.Metrics != nil {
		pool.inst = newInstruments(config.Metrics, config.Name)
		pool.inst.size.Set(float64(config.WorkerCount))
	}

	for i := 0; i < config.WorkerCount; i++ {
		w := &worker{
			id:      i,
			pool:    pool,
			tasks:   taskRx.Clone(),
			results: resultTx.Clone(),
		}
		pool.workers.Go(w.run)
	}

	// Only the workers hold handles now; the result channel closes when
	// the last of them exits.
	taskRx.Close()
	resultTx.Close()

	return pool, nil
}
