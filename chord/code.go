// Package chord implements GKOS chord recognition: a bounded history of
// decoded chord codes and the debounce filter that turns a held chord into a
// single edge-triggered event.
package chord

import (
	"fmt"
	"strings"
)

// Bits is the number of significant bits in a chord code.
const Bits = 6

// Space is the number of distinct chord codes, including the empty chord.
const Space = 1 << Bits

// Code is a set of held logical keys. Bit i is GKOS key i+1.
// The zero Code means no chord is held.
type Code uint8

// Key is a 1-based GKOS logical key number.
type Key uint8

const (
	Key1 Key = iota + 1
	Key2
	Key3
	Key4
	Key5
	Key6
)

// Bit returns the code with only k set. Keys outside 1..Bits yield 0.
func (k Key) Bit() Code {
	if k < 1 || k > Bits {
		return 0
	}
	return Code(1) << (k - 1)
}

// Valid reports whether k names one of the chord bits.
func (k Key) Valid() bool {
	return k >= 1 && k <= Bits
}

// Logical key groups of the GKOS 2x3 layout.
var (
	ColumnLeft  = Key1.Bit() | Key2.Bit() | Key3.Bit()
	ColumnRight = Key4.Bit() | Key5.Bit() | Key6.Bit()
	RowTop      = Key1.Bit() | Key4.Bit()
	RowMiddle   = Key2.Bit() | Key5.Bit()
	RowBottom   = Key3.Bit() | Key6.Bit()

	Mask = Code(Space - 1)
)

// Has reports whether key k is part of c.
func (c Code) Has(k Key) bool {
	b := k.Bit()
	return b != 0 && c&b == b
}

// With returns c with key k added.
func (c Code) With(k Key) Code {
	return c | k.Bit()
}

// Keys lists the keys held in c in ascending order.
func (c Code) Keys() []Key {
	var keys []Key
	for k := Key1; k <= Bits; k++ {
		if c.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c Code) String() string {
	if c == 0 {
		return "0x00"
	}
	parts := make([]string, 0, Bits)
	for _, k := range c.Keys() {
		parts = append(parts, fmt.Sprintf("%d", k))
	}
	return fmt.Sprintf("0x%02X[%s]", uint8(c), strings.Join(parts, "+"))
}
