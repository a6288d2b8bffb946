// Package rc provides a reference-counted handle to a shared value.
//
// Every handle returned by New or Clone must be closed exactly once. When
// the last handle closes, the release hook runs and the value is dropped.
// The count is not synchronized: all handles to one value must stay on a
// single goroutine. Use the mpsc package, whose handles are counted under a
// lock, to share across goroutines.
package rc

// inner is the value and count shared by every handle.
type inner[T any] struct {
	value   T
	count   int
	release func(*T)
}

// Rc is one counted handle to a shared value.
type Rc[T any] struct {
	inner  *inner[T]
	closed bool
}

// New returns the first handle to v. release, if non-nil, is called with the
// value once the last handle is closed.
func New[T any](v T, release func(*T)) *Rc[T] {
	return &Rc[T]{inner: &inner[T]{value: v, count: 1, release: release}}
}

// Clone returns another handle to the same value and increments the count.
// It panics if rc has been closed.
func (rc *Rc[T]) Clone() *Rc[T] {
	if rc.closed {
		panic("rc: clone of closed Rc")
	}
	rc.inner.count++
	return &Rc[T]{inner: rc.inner}
}

// Get returns a pointer to the shared value. It panics if rc has been
// closed.
func (rc *Rc[T]) Get() *T {
	if rc.closed {
		panic("rc: use of closed Rc")
	}
	return &rc.inner.value
}

// Count returns the number of open handles, or zero if rc is closed and
// was the last one.
func (rc *Rc[T]) Count() int {
	return rc.inner.count
}

// Close releases this handle. Closing the last handle runs the release
// hook. Closing twice is a no-op.
func (rc *Rc[T]) Close() {
	if rc.closed {
		return
	}
	rc.closed = true

	in := rc.inner
	in.count--
	if in.count > 0 {
		return
	}
	if in.release != nil {
		in.release(&in.value)
	}
	var zero T
	in.value = zero
}
