// Package flatten adapts an iterator of iterators into a single iterator
// that can be consumed from either end.
//
// Values come out in order from the front and in reverse order from the
// back. Both ends may be mixed: the adapter keeps a front and a back inner
// iterator, and when the outer iterator runs dry each end falls through to
// the other's partially consumed inner iterator, so no value is yielded
// twice or skipped.
package flatten

import "iter"

// DoubleEnded is an iterator that can yield from both ends.
type DoubleEnded[T any] interface {
	// Next removes and returns the front value.
	Next() (T, bool)
	// NextBack removes and returns the back value.
	NextBack() (T, bool)
}

// Slice is a DoubleEnded over the elements of a slice.
type Slice[T any] struct {
	items []T
}

// FromSlice returns a DoubleEnded over items. The slice is not copied.
func FromSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items}
}

// Next implements DoubleEnded.
func (s *Slice[T]) Next() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[0]
	s.items = s.items[1:]
	return v, true
}

// NextBack implements DoubleEnded.
func (s *Slice[T]) NextBack() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	n := len(s.items) - 1
	v := s.items[n]
	s.items = s.items[:n]
	return v, true
}

// Len returns the number of values left.
func (s *Slice[T]) Len() int {
	return len(s.items)
}

// Flatten yields the values of each inner iterator produced by outer.
type Flatten[I DoubleEnded[T], T any] struct {
	outer     DoubleEnded[I]
	front     I
	back      I
	haveFront bool
	haveBack  bool
}

// New returns a Flatten over outer.
func New[I DoubleEnded[T], T any](outer DoubleEnded[I]) *Flatten[I, T] {
	return &Flatten[I, T]{outer: outer}
}

// Next implements DoubleEnded.
func (f *Flatten[I, T]) Next() (T, bool) {
	for {
		if f.haveFront {
			if v, ok := f.front.Next(); ok {
				return v, true
			}
			f.haveFront = false
		}
		inner, ok := f.outer.Next()
		if !ok {
			break
		}
		f.front, f.haveFront = inner, true
	}

	var zero T
	if !f.haveBack {
		return zero, false
	}
	v, ok := f.back.Next()
	if !ok {
		f.haveBack = false
	}
	return v, ok
}

// NextBack implements DoubleEnded.
func (f *Flatten[I, T]) NextBack() (T, bool) {
	for {
		if f.haveBack {
			if v, ok := f.back.NextBack(); ok {
				return v, true
			}
			f.haveBack = false
		}
		inner, ok := f.outer.NextBack()
		if !ok {
			break
		}
		f.back, f.haveBack = inner, true
	}

	var zero T
	if !f.haveFront {
		return zero, false
	}
	v, ok := f.front.NextBack()
	if !ok {
		f.haveFront = false
	}
	return v, ok
}

// All returns an iterator over the remaining values from the front.
func (f *Flatten[I, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := f.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Backward returns an iterator over the remaining values from the back.
func (f *Flatten[I, T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := f.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Slices flattens a slice of slices.
func Slices[T any](items [][]T) *Flatten[*Slice[T], T] {
	inner := make([]*Slice[T], len(items))
	for i, s := range items {
		inner[i] = FromSlice(s)
	}
	return New[*Slice[T], T](FromSlice(inner))
}
