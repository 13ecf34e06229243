package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_StartsZeroed(t *testing.T) {
	r := NewRing(8)
	for i := range r.Len() {
		assert.Equal(t, Frame{}, r.Get(i))
	}
}

func TestRing_Wraps(t *testing.T) {
	const n = 7
	r := NewRing(n)
	pushed := 0
	for _, m := range []int{n, n + 1, 3*n + 2} {
		r.Reset()
		for i := 1; i <= m; i++ {
			r.Push(Frame{Code: Code(i % Space)})
		}
		pushed = m
		assert.Equal(t, Code(pushed%Space), r.Get(0).Code, "m=%d", m)
		for ago := range n {
			assert.Equal(t, Code((pushed-ago)%Space), r.Get(ago).Code, "m=%d ago=%d", m, ago)
		}
	}
}

func TestRing_IndexMatchesCursor(t *testing.T) {
	r := NewRing(4)
	r.Push(Frame{Code: 1})
	r.Push(Frame{Code: 2})
	assert.Equal(t, r.Cursor(), r.Index(0))
	assert.Equal(t, (r.Cursor()+3)%4, r.Index(1))
}

func TestRing_OutOfRangePanics(t *testing.T) {
	r := NewRing(4)
	assert.Panics(t, func() { r.Get(4) })
	assert.Panics(t, func() { r.Get(-1) })
	assert.Panics(t, func() { NewRing(1) })
}

func TestRing_FlagsAreKept(t *testing.T) {
	r := NewRing(2)
	r.Push(Frame{Code: 3, Flags: FlagShift | FlagSymbolLock})
	require.Equal(t, Frame{Code: 3, Flags: FlagShift | FlagSymbolLock}, r.Get(0))
}
