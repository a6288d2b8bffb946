// Package refcell provides a value with borrow tracking checked at run time.
//
// A RefCell hands out any number of shared borrows or a single exclusive
// one, never both. Borrow attempts that would break that rule fail instead
// of blocking. Every guard must be released; the cell returns to the
// unshared state when the last one is.
//
// A RefCell is not safe for concurrent use. It catches aliasing mistakes in
// single-goroutine code; use a sync.RWMutex across goroutines.
package refcell

type borrowState int

const (
	unshared borrowState = iota
	shared
	exclusive
)

// RefCell holds a value and tracks outstanding borrows of it.
type RefCell[T any] struct {
	value   T
	state   borrowState
	readers int
}

// New returns a RefCell holding v.
func New[T any](v T) *RefCell[T] {
	return &RefCell[T]{value: v}
}

// TryBorrow returns a shared guard, or false if the value is exclusively
// borrowed.
func (c *RefCell[T]) TryBorrow() (*Ref[T], bool) {
	if c.state == exclusive {
		return nil, false
	}
	c.state = shared
	c.readers++
	return &Ref[T]{cell: c}, true
}

// TryBorrowMut returns an exclusive guard, or false if any borrow is
// outstanding.
func (c *RefCell[T]) TryBorrowMut() (*RefMut[T], bool) {
	if c.state != unshared {
		return nil, false
	}
	c.state = exclusive
	return &RefMut[T]{cell: c}, true
}

// Borrowed reports whether any guard is outstanding.
func (c *RefCell[T]) Borrowed() bool {
	return c.state != unshared
}

// Ref is a shared borrow.
type Ref[T any] struct {
	cell     *RefCell[T]
	released bool
}

// Get returns the borrowed value. It panics after Release.
func (r *Ref[T]) Get() T {
	if r.released {
		panic("refcell: use of released Ref")
	}
	return r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true

	c := r.cell
	c.readers--
	if c.readers == 0 {
		c.state = unshared
	}
}

// RefMut is an exclusive borrow.
type RefMut[T any] struct {
	cell     *RefCell[T]
	released bool
}

// Get returns a pointer to the borrowed value. It panics after Release.
func (r *RefMut[T]) Get() *T {
	if r.released {
		panic("refcell: use of released RefMut")
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.state = unshared
}
