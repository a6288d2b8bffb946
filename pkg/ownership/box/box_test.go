package box

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxGet(t *testing.T) {
	b := New(32, nil)
	assert.Equal(t, 32, *b.Get())

	*b.Get() = 64
	assert.Equal(t, 64, *b.Get())
	assert.False(t, b.Released())
}

func TestBoxReleaseOnce(t *testing.T) {
	var released []string
	b := New("conn", func(v *string) {
		released = append(released, *v)
	})

	b.Release()
	b.Release()

	require.True(t, b.Released())
	assert.Equal(t, []string{"conn"}, released, "release hook should run exactly once")
}

func TestBoxGetAfterRelease(t *testing.T) {
	b := New(1, nil)
	b.Release()

	assert.PanicsWithValue(t, "box: use of released Box", func() { b.Get() })
}
