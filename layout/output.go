// Package layout holds the chord-to-output tables of the GKOS layout.
package layout

import (
	"fmt"

	"github.com/gkospad/gkospad/device/keyboard"
)

// Kind discriminates Output.
type Kind uint8

const (
	KindUnbound Kind = iota
	KindText
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindKey:
		return "key"
	default:
		return "unbound"
	}
}

// Output is what a chord produces: literal text, a single non-printable key
// (a HID usage code) or nothing.
type Output struct {
	kind Kind
	text string
	key  uint8
}

// Unbound is the zero Output.
var Unbound = Output{}

// Text returns a text output. An empty string is Unbound.
func Text(s string) Output {
	if s == "" {
		return Unbound
	}
	return Output{kind: KindText, text: s}
}

// Key returns a key output. Usage code 0 is Unbound.
func Key(code uint8) Output {
	if code == 0 {
		return Unbound
	}
	return Output{kind: KindKey, key: code}
}

func (o Output) Kind() Kind { return o.kind }
func (o Output) IsUnbound() bool { return o.kind == KindUnbound }
func (o Output) TextValue() string { return o.text }
func (o Output) KeyCode() uint8 { return o.key }

func (o Output) String() string {
	switch o.kind {
	case KindText:
		return fmt.Sprintf("text %q", o.text)
	case KindKey:
		if name, ok := keyboard.KeyName[o.key]; ok {
			return "key " + name
		}
		return fmt.Sprintf("key 0x%02X", o.key)
	default:
		return "unbound"
	}
}
