// Package keystate provides the out-of-band logical key state that is merged
// into chords decoded from the gamepad, such as keys held on a keyboard.
package keystate

import (
	"sync/atomic"

	"github.com/gkospad/gkospad/chord"
)

// Source answers whether a logical key is currently held. Implementations
// must never block.
type Source interface {
	IsHeld(key chord.Key) bool
}

// Availability is implemented by sources that can be absent at runtime, for
// example before their hook has been installed.
type Availability interface {
	Available() bool
}

// IsAvailable reports whether s can be queried. Sources that do not
// implement Availability are always available.
func IsAvailable(s Source) bool {
	if s == nil {
		return false
	}
	if a, ok := s.(Availability); ok {
		return a.Available()
	}
	return true
}

// Flags is a lock-free flag word shared between a writer (a key hook) and the
// engine. Bit n is set while logical key n is held.
//
// A read may observe a write one report late; that is accepted.
type Flags struct {
	word  atomic.Uint32
	ready atomic.Bool
}

// NewFlags returns an available, all-released flag word.
func NewFlags() *Flags {
	f := &Flags{}
	f.ready.Store(true)
	return f
}

// Press marks key as held.
func (f *Flags) Press(key chord.Key) {
	if !key.Valid() {
		return
	}
	f.word.Or(uint32(1) << key)
}

// Release marks key as released.
func (f *Flags) Release(key chord.Key) {
	if !key.Valid() {
		return
	}
	f.word.And(^(uint32(1) << key))
}

// IsHeld implements Source.
func (f *Flags) IsHeld(key chord.Key) bool {
	if !key.Valid() {
		return false
	}
	return f.word.Load()&(uint32(1)<<key) != 0
}

// Snapshot returns the raw flag word.
func (f *Flags) Snapshot() uint32 {
	return f.word.Load()
}

// Available implements Availability.
func (f *Flags) Available() bool {
	return f.ready.Load()
}

// SetAvailable toggles availability, e.g. while the hook is being torn down.
// Held keys are cleared when the source becomes unavailable.
func (f *Flags) SetAvailable(v bool) {
	if !v {
		f.word.Store(0)
	}
	f.ready.Store(v)
}
