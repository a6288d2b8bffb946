package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/goprim/pkg/messaging/mpsc"
)

// Submit adds a task to the pool for execution.
// The task will be executed with context.Background().
// Use SubmitWithContext to provide a custom context.
func (p *Pool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithContext adds a task to the pool for execution with the given context.
// The context is passed to the task's Execute method, enabling timeout and
// cancellation propagation. If the pool has a TaskTimeout configured, the
// effective timeout will be the minimum of the context deadline and TaskTimeout.
func (p *Pool) SubmitWithContext(ctx context.Context, task Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	// Check if context is already canceled before queueing
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cannot submit task: context canceled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.shutdown {
		return ErrPoolClosed
	}

	p.tasks.Send(job{ctx: ctx, task: task})
	p.totalSubmitted.Add(1)
	p.updateQueued()
	return nil
}

// Results returns the receiver for task results. It reports closure once the
// pool has shut down and every queued task has completed. Results are
// buffered without bound, so a caller that never reads them does not stall
// the workers.
func (p *Pool) Results() *mpsc.Receiver[Result] {
	return p.results
}

// Shutdown stops accepting tasks and lets the workers drain the queue.
// The returned channel closes once every worker has exited. Calling
// Shutdown again returns the same channel.
func (p *Pool) Shutdown() <-chan struct{} {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return p.done
	}
	p.shutdown = true
	p.tasks.Close()
	p.mu.Unlock()

	p.log.WithField("queued", p.QueueSize()).Debug("shutting down")

	go func() {
		p.workers.Wait()
		p.log.WithField("completed", p.TotalCompleted()).Debug("shut down")
		close(p.done)
	}()

	return p.done
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *Pool) QueueSize() int {
	return p.tasks.Stats().Queued
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *Pool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *Pool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *Pool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

func (p *Pool) updateQueued() {
	if p.inst != nil {
		p.inst.queued.Set(float64(p.QueueSize()))
	}
}

// run is the main loop for a worker. It exits once the task channel is
// closed and drained.
func (w *worker) run() {
	defer w.results.Close()
	defer w.tasks.Close()

	log := w.pool.log.WithField("worker", w.id)
	if w.pool.config.OnWorkerStart != nil {
		w.pool.config.OnWorkerStart(w.id)
	}
	log.Debug("worker started")

	for j := range w.tasks.All() {
		w.pool.updateQueued()
		w.executeTask(j, log)
	}

	if w.pool.config.OnWorkerStop != nil {
		w.pool.config.OnWorkerStop(w.id)
	}
	log.Debug("worker stopped")
}

// executeTask executes a single task with the context it was submitted with.
func (w *worker) executeTask(j job, log logrus.FieldLogger) {
	p := w.pool
	start := time.Now()
	var err error

	p.activeWorkers.Add(1)
	if p.inst != nil {
		p.inst.active.Inc()
	}
	if p.config.OnTaskStart != nil {
		p.config.OnTaskStart(w.id, j.task)
	}

	// Handle panics during task execution
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v\nStack trace:\n%s", r, debug.Stack())
			log.WithField("panic", r).Error("task panicked")
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(j.task, r)
			}
		}

		result := Result{
			Task:     j.task,
			Error:    err,
			Duration: time.Since(start),
			WorkerID: w.id,
		}

		p.activeWorkers.Add(-1)
		p.totalCompleted.Add(1)
		if p.inst != nil {
			p.inst.active.Dec()
			p.inst.observe(result)
		}
		if p.config.OnTaskComplete != nil {
			p.config.OnTaskComplete(w.id, result)
		}

		w.results.Send(result)
	}()

	ctx := j.ctx

	// Apply TaskTimeout if configured
	// The effective timeout is the minimum of the context deadline and TaskTimeout
	if p.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}

	err = j.task.Execute(ctx)
}
