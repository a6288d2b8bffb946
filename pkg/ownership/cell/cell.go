// Package cell provides a mutable slot that hands out copies of its value
// rather than references to it.
//
// A Cell is meant for state owned by one goroutine; it does no locking.
package cell

// Cell holds a value that is read and written by copy.
type Cell[T any] struct {
	value T
}

// New returns a Cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Get returns a copy of the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set replaces the current value.
func (c *Cell[T]) Set(v T) {
	c.value = v
}

// Replace stores v and returns the previous value.
func (c *Cell[T]) Replace(v T) T {
	old := c.value
	c.value = v
	return old
}

// Update stores fn applied to the current value and returns the new value.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.value = fn(c.value)
	return c.value
}
