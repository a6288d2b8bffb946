package mpsc

import (
	"context"
	"iter"
	"time"
)

// Receiver is a consumer handle. It keeps a private staging buffer, so a
// single Receiver must not be used from several goroutines at once; give
// each consumer its own Clone.
type Receiver[T any] struct {
	state  *state[T]
	staged ring[T]
	closed bool
}

// Recv returns the next value, blocking while the channel is empty and at
// least one Sender is open. It returns false once every Sender is closed
// and no value remains; from then on every call returns false.
func (rx *Receiver[T]) Recv() (T, bool) {
	v, err := rx.recv(nil)
	return v, err == nil
}

// RecvContext is like Recv but also returns ctx.Err() when ctx ends first.
// It returns ErrClosed once the channel is closed and drained.
func (rx *Receiver[T]) RecvContext(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return rx.recv(ctx)
}

func (rx *Receiver[T]) recv(ctx context.Context) (T, error) {
	var zero T
	if rx.closed {
		return zero, ErrClosed
	}

	s := rx.state
	if v, ok := rx.staged.pop(); ok {
		s.received.Add(1)
		if s.inst != nil {
			s.inst.recvStaged.Inc()
		}
		return v, nil
	}

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		stop := context.AfterFunc(ctx, func() {
			// Taking the lock orders the wakeup after the receiver parks.
			s.mu.Lock()
			s.mu.Unlock()
			s.available.Broadcast()
		})
		defer stop()
	}

	var waitStart time.Time
	s.lock()
	for {
		if v, ok := s.queue.pop(); ok {
			if s.staging && s.queue.len() > 0 {
				// The staging ring is empty here; exchanging the rings moves
				// the whole backlog in order.
				s.queue, rx.staged = rx.staged, s.queue
				s.swaps.Add(1)
				if s.inst != nil {
					s.inst.swaps.Inc()
				}
			}
			if s.inst != nil {
				s.inst.queued.Set(float64(s.queue.len()))
			}
			s.mu.Unlock()

			s.received.Add(1)
			if s.inst != nil {
				s.inst.recvQueue.Inc()
			}
			rx.observeWait(waitStart)
			return v, nil
		}

		if s.senders == 0 {
			s.mu.Unlock()
			rx.observeWait(waitStart)
			return zero, ErrClosed
		}

		if ctx != nil {
			if err := ctx.Err(); err != nil {
				s.mu.Unlock()
				rx.observeWait(waitStart)
				return zero, err
			}
		}

		if waitStart.IsZero() {
			waitStart = time.Now()
		}
		s.available.Wait()
		s.noteLock()
	}
}

func (rx *Receiver[T]) observeWait(start time.Time) {
	if start.IsZero() || rx.state.inst == nil {
		return
	}
	rx.state.inst.wait.Observe(time.Since(start).Seconds())
}

// All returns an iterator over received values that ends when the channel
// is closed and drained.
func (rx *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := rx.Recv()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Clone returns a new Receiver for the same channel with its own empty
// staging buffer. Values already staged by rx stay with rx.
// Clone panics if rx has been closed.
func (rx *Receiver[T]) Clone() *Receiver[T] {
	if rx.closed {
		panic("mpsc: clone of closed Receiver")
	}

	s := rx.state
	s.lock()
	s.receivers++
	s.mu.Unlock()

	return &Receiver[T]{state: s}
}

// Close releases this handle. Staged values go back to the front of the
// shared queue while other receivers remain, and are discarded otherwise.
// After Close, Recv reports closure. Closing twice is a no-op.
func (rx *Receiver[T]) Close() error {
	if rx.closed {
		return nil
	}
	rx.closed = true

	s := rx.state
	s.lock()
	s.receivers--
	returned := 0
	if s.receivers > 0 && rx.staged.len() > 0 {
		returned = rx.staged.len()
		for v, ok := s.queue.pop(); ok; v, ok = s.queue.pop() {
			rx.staged.push(v)
		}
		s.queue, rx.staged = rx.staged, s.queue
		if s.inst != nil {
			s.inst.queued.Set(float64(s.queue.len()))
		}
	}
	s.mu.Unlock()

	if returned > 0 {
		s.available.Broadcast()
		s.log.WithField("returned", returned).Debug("receiver closed, staged values returned to queue")
	} else if n := rx.staged.len(); n > 0 {
		s.log.WithField("discarded", n).Warn("last receiver closed with staged values")
	}
	rx.staged.reset()
	return nil
}

// Len returns the number of values this receiver can take without
// blocking: its staged values plus the shared queue.
func (rx *Receiver[T]) Len() int {
	s := rx.state
	s.mu.Lock()
	n := s.queue.len()
	s.mu.Unlock()
	return n + rx.staged.len()
}

// Stats returns a snapshot of the channel counters including this
// receiver's staged count.
func (rx *Receiver[T]) Stats() Stats {
	stats := rx.state.stats()
	stats.Staged = rx.staged.len()
	return stats
}
