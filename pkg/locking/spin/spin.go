// Package spin provides a busy-waiting lock for very short critical
// sections.
//
// Lock satisfies sync.Locker. It yields the processor between attempts, so
// a waiter does not starve the holder on a single P, but it never parks:
// prefer sync.Mutex when the section can block or run long.
package spin

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Lock is a spin lock. The zero value is unlocked.
type Lock struct {
	held atomic.Bool
}

var _ sync.Locker = (*Lock)(nil)

// Lock acquires l, spinning until it is free.
func (l *Lock) Lock() {
	for !l.TryLock() {
		// Wait on a plain load before retrying the swap.
		for l.held.Load() {
			runtime.Gosched()
		}
	}
}

// TryLock acquires l if it is free and reports whether it did.
func (l *Lock) TryLock() bool {
	return l.held.CompareAndSwap(false, true)
}

// Unlock releases l. It panics if l is not locked.
func (l *Lock) Unlock() {
	if !l.held.CompareAndSwap(true, false) {
		panic("spin: unlock of unlocked Lock")
	}
}

// Mutex guards a value with a spin Lock.
type Mutex[T any] struct {
	lock  Lock
	value T
}

// NewMutex returns a Mutex guarding v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// Do runs fn with exclusive access to the guarded value. The lock is
// released even if fn panics.
func (m *Mutex[T]) Do(fn func(*T)) {
	m.lock.Lock()
	defer m.lock.Unlock()
	fn(&m.value)
}

// WithLock runs fn with exclusive access to the value guarded by m and
// returns its result.
func WithLock[T, R any](m *Mutex[T], fn func(*T) R) R {
	m.lock.Lock()
	defer m.lock.Unlock()
	return fn(&m.value)
}
