package mpsc

import "sync/atomic"

// Sender is a producer handle. Every handle obtained from New or Clone must
// be closed exactly once; the channel closes when the last one is.
// A single Sender may be used from several goroutines.
type Sender[T any] struct {
	state  *state[T]
	closed atomic.Bool
}

// Send appends value to the channel and wakes one waiting receiver. It never
// blocks and never fails, even when no receiver is left.
// Send panics if this handle has been closed.
func (tx *Sender[T]) Send(value T) {
	if tx.closed.Load() {
		panic("mpsc: send on closed Sender")
	}

	s := tx.state
	s.lock()
	// A concurrent Close of this handle may have dropped the last count
	// since the check above.
	if tx.closed.Load() {
		s.mu.Unlock()
		panic("mpsc: send on closed Sender")
	}
	s.queue.push(value)
	if s.inst != nil {
		s.inst.queued.Set(float64(s.queue.len()))
	}
	s.mu.Unlock()

	// One value became available, so one receiver is enough.
	s.available.Signal()

	s.sent.Add(1)
	if s.inst != nil {
		s.inst.sends.Inc()
	}
}

// Clone returns a new Sender for the same channel, keeping it open until the
// clone is closed too. Clone panics if this handle has been closed.
func (tx *Sender[T]) Clone() *Sender[T] {
	if tx.closed.Load() {
		panic("mpsc: clone of closed Sender")
	}

	s := tx.state
	s.lock()
	if tx.closed.Load() {
		s.mu.Unlock()
		panic("mpsc: clone of closed Sender")
	}
	s.senders++
	if s.inst != nil {
		s.inst.senders.Set(float64(s.senders))
	}
	s.mu.Unlock()

	return &Sender[T]{state: s}
}

// Close releases this handle. Closing the last Sender wakes every blocked
// receiver so it can observe closure. Closing an already closed handle is a
// no-op.
func (tx *Sender[T]) Close() error {
	if !tx.closed.CompareAndSwap(false, true) {
		return nil
	}

	s := tx.state
	s.lock()
	s.senders--
	last := s.senders == 0
	if s.inst != nil {
		s.inst.senders.Set(float64(s.senders))
	}
	s.mu.Unlock()

	if last {
		s.available.Broadcast()
		s.log.Debug("last sender closed")
	}
	return nil
}

// Stats returns a snapshot of the channel counters.
func (tx *Sender[T]) Stats() Stats {
	return tx.state.stats()
}
