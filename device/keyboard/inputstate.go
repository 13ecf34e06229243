// Package keyboard describes the HID keyboard used to inject synthesized
// keystrokes: usage codes, character translation and the input state sent
// to a VIIPER virtual keyboard.
package keyboard

import "io"

// InputState is one keyboard report: a modifier byte and a 256-bit key
// bitmap indexed by usage code.
type InputState struct {
	Modifiers uint8
	KeyBitmap [32]uint8
}

// PressKeyWithMod returns a state with the given modifiers and keys held.
// Modifier usages among keys are folded into the modifier byte.
func PressKeyWithMod(modifiers uint8, keys ...uint8) InputState {
	st := InputState{Modifiers: modifiers}
	for _, k := range keys {
		if IsModifier(k) {
			st.Modifiers |= ModifierBit(k)
			continue
		}
		st.KeyBitmap[k/8] |= 1 << (k % 8)
	}
	return st
}

// PressKey returns a state with keys held and no extra modifiers.
func PressKey(keys ...uint8) InputState {
	return PressKeyWithMod(0, keys...)
}

// Release returns the all-released state.
func Release() InputState {
	return InputState{}
}

// IsPressed reports whether key is held in st.
func (st InputState) IsPressed(key uint8) bool {
	if IsModifier(key) {
		return st.Modifiers&ModifierBit(key) != 0
	}
	return st.KeyBitmap[key/8]&(1<<(key%8)) != 0
}

// Keys lists the non-modifier keys held in st in ascending order.
func (st InputState) Keys() []uint8 {
	var keys []uint8
	for i := 0; i < 256; i++ {
		if st.KeyBitmap[i/8]&(1<<(i%8)) != 0 {
			keys = append(keys, uint8(i))
		}
	}
	return keys
}

// MarshalBinary encodes st in the VIIPER keyboard stream format:
//
//	Byte 0: modifiers
//	Byte 1: key count
//	Bytes 2+: usage codes of held keys
func (st *InputState) MarshalBinary() ([]byte, error) {
	keys := st.Keys()
	b := make([]byte, 2+len(keys))
	b[0] = st.Modifiers
	b[1] = uint8(len(keys))
	copy(b[2:], keys)
	return b, nil
}

// UnmarshalBinary decodes the VIIPER keyboard stream format.
func (st *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}
	n := int(data[1])
	if len(data) < 2+n {
		return io.ErrUnexpectedEOF
	}
	*st = InputState{Modifiers: data[0]}
	for _, k := range data[2 : 2+n] {
		st.KeyBitmap[k/8] |= 1 << (k % 8)
	}
	return nil
}
