// Package box provides a single-owner value holder with an explicit release
// step.
//
// A Box owns one value. Get hands out a pointer to it for reads and writes
// until Release is called; after that the value is cleared and Get panics.
// The optional release hook runs exactly once and is the place to free
// anything the value holds, such as a file or a connection.
//
// A Box is not safe for concurrent use.
package box

// Box owns a single value until it is released.
type Box[T any] struct {
	value    *T
	release  func(*T)
	released bool
}

// New returns a Box owning v. release, if non-nil, is called with the value
// when the Box is released.
func New[T any](v T, release func(*T)) *Box[T] {
	return &Box[T]{value: &v, release: release}
}

// Get returns a pointer to the owned value. It panics if the Box has been
// released.
func (b *Box[T]) Get() *T {
	if b.released {
		panic("box: use of released Box")
	}
	return b.value
}

// Release runs the release hook and drops the value. Releasing twice is a
// no-op.
func (b *Box[T]) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.release != nil {
		b.release(b.value)
	}
	b.value = nil
}

// Released reports whether Release has been called.
func (b *Box[T]) Released() bool {
	return b.released
}
