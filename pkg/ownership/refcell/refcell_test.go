package refcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedBorrows(t *testing.T) {
	c := New(5)

	r1, ok := c.TryBorrow()
	require.True(t, ok)
	r2, ok := c.TryBorrow()
	require.True(t, ok)

	assert.Equal(t, 5, r1.Get())
	assert.Equal(t, 5, r2.Get())

	_, ok = c.TryBorrowMut()
	assert.False(t, ok, "exclusive borrow must fail while shared borrows exist")

	r1.Release()
	_, ok = c.TryBorrowMut()
	assert.False(t, ok, "one shared borrow is still outstanding")

	r2.Release()
	assert.False(t, c.Borrowed())

	m, ok := c.TryBorrowMut()
	require.True(t, ok)
	m.Release()
}

func TestExclusiveBorrow(t *testing.T) {
	c := New([]string{"a"})

	m, ok := c.TryBorrowMut()
	require.True(t, ok)

	_, ok = c.TryBorrow()
	assert.False(t, ok)
	_, ok = c.TryBorrowMut()
	assert.False(t, ok)

	*m.Get() = append(*m.Get(), "b")
	m.Release()

	r, ok := c.TryBorrow()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Get())
	r.Release()
}

func TestDoubleRelease(t *testing.T) {
	c := New(0)

	r1, _ := c.TryBorrow()
	r2, _ := c.TryBorrow()
	r1.Release()
	r1.Release()

	_, ok := c.TryBorrowMut()
	assert.False(t, ok, "double release must not drop the other reader")
	r2.Release()

	m, _ := c.TryBorrowMut()
	m.Release()
	m.Release()
	assert.False(t, c.Borrowed())
}

func TestReleasedGuardPanics(t *testing.T) {
	c := New(1)

	r, _ := c.TryBorrow()
	r.Release()
	assert.Panics(t, func() { r.Get() })

	m, _ := c.TryBorrowMut()
	m.Release()
	assert.Panics(t, func() { m.Get() })
}
