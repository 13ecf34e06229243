package chord

import "fmt"

// Frame flags. Reserved for shift and symbol lock state; the engine always
// records 0.
const (
	FlagShift      uint8 = 1 << 0
	FlagSymbol     uint8 = 1 << 1
	FlagShiftLock  uint8 = 1 << 2
	FlagSymbolLock uint8 = 1 << 3

	FlagsMask uint8 = 0x0F
)

// Frame is the chord record stored for one report.
type Frame struct {
	Code  Code
	Flags uint8
}

// Ring is a fixed-capacity circular history of frames. Slots start zeroed,
// so an idle ring reads as "no chord" at every depth.
//
// Ring is not safe for concurrent use.
type Ring struct {
	frames []Frame
	cursor int
}

// NewRing returns a ring with n slots. n must be at least 2.
func NewRing(n int) *Ring {
	if n < 2 {
		panic(fmt.Sprintf("chord: ring size %d too small", n))
	}
	return &Ring{frames: make([]Frame, n)}
}

// Len returns the ring capacity.
func (r *Ring) Len() int {
	return len(r.frames)
}

// Cursor returns the slot index of the most recent push.
func (r *Ring) Cursor() int {
	return r.cursor
}

// Push advances the cursor and stores f in the new slot, overwriting the
// oldest record.
func (r *Ring) Push(f Frame) {
	r.cursor = (r.cursor + 1) % len(r.frames)
	r.frames[r.cursor] = f
}

// Get returns the frame pushed framesAgo pushes before the most recent one.
// Get(0) is the most recent frame.
func (r *Ring) Get(framesAgo int) Frame {
	return r.frames[r.Index(framesAgo)]
}

// Index resolves framesAgo to a slot index. It panics when framesAgo is
// outside [0, Len()-1].
func (r *Ring) Index(framesAgo int) int {
	n := len(r.frames)
	if framesAgo < 0 || framesAgo >= n {
		panic(fmt.Sprintf("chord: framesAgo %d out of range [0,%d]", framesAgo, n-1))
	}
	return (r.cursor + n - framesAgo) % n
}

// Reset zeroes every slot.
func (r *Ring) Reset() {
	clear(r.frames)
	r.cursor = 0
}
