package rc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRcShared(t *testing.T) {
	a := New([]int{1, 2}, nil)
	b := a.Clone()

	*b.Get() = append(*b.Get(), 3)

	assert.Equal(t, []int{1, 2, 3}, *a.Get())
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 2, b.Count())
}

func TestRcReleaseOnLastClose(t *testing.T) {
	releases := 0
	a := New("config", func(v *string) {
		assert.Equal(t, "config", *v)
		releases++
	})
	b := a.Clone()
	c := b.Clone()
	require.Equal(t, 3, a.Count())

	a.Close()
	c.Close()
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, 0, releases, "release should wait for the last handle")

	b.Close()
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 1, releases)
}

func TestRcDoubleClose(t *testing.T) {
	a := New(1, nil)
	b := a.Clone()

	a.Close()
	a.Close()

	assert.Equal(t, 1, b.Count(), "second close must not decrement again")
	assert.Equal(t, 1, *b.Get())
}

func TestRcClosedHandle(t *testing.T) {
	a := New(1, nil)
	a.Close()

	assert.PanicsWithValue(t, "rc: use of closed Rc", func() { a.Get() })
	assert.PanicsWithValue(t, "rc: clone of closed Rc", func() { a.Clone() })
}
