package dualshock4

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gkospad/gkospad/chord"
)

// Button names a digital input of the report.
type Button uint8

const (
	ButtonNameSquare Button = iota + 1
	ButtonNameCross
	ButtonNameCircle
	ButtonNameTriangle
	ButtonNameL1
	ButtonNameR1
	ButtonNameL2
	ButtonNameR2
	ButtonNameShare
	ButtonNameOptions
	ButtonNameL3
	ButtonNameR3
	ButtonNamePS
	ButtonNameTouchpad
)

type bitRef struct {
	offset int
	mask   uint8
}

var buttons = []struct {
	button Button
	name   string
	ref    bitRef
}{
	{ButtonNameSquare, "Square", bitRef{OffsetFaceDPad, ButtonSquare}},
	{ButtonNameCross, "Cross", bitRef{OffsetFaceDPad, ButtonCross}},
	{ButtonNameCircle, "Circle", bitRef{OffsetFaceDPad, ButtonCircle}},
	{ButtonNameTriangle, "Triangle", bitRef{OffsetFaceDPad, ButtonTriangle}},
	{ButtonNameL1, "L1", bitRef{OffsetShoulders, ButtonL1}},
	{ButtonNameR1, "R1", bitRef{OffsetShoulders, ButtonR1}},
	{ButtonNameL2, "L2", bitRef{OffsetShoulders, ButtonL2}},
	{ButtonNameR2, "R2", bitRef{OffsetShoulders, ButtonR2}},
	{ButtonNameShare, "Share", bitRef{OffsetShoulders, ButtonShare}},
	{ButtonNameOptions, "Options", bitRef{OffsetShoulders, ButtonOptions}},
	{ButtonNameL3, "L3", bitRef{OffsetShoulders, ButtonL3}},
	{ButtonNameR3, "R3", bitRef{OffsetShoulders, ButtonR3}},
	{ButtonNamePS, "PS", bitRef{OffsetCounterPS, ButtonPS}},
	{ButtonNameTouchpad, "Touchpad", bitRef{OffsetCounterPS, ButtonTouchpadClick}},
}

func (b Button) ref() (bitRef, bool) {
	for _, e := range buttons {
		if e.button == b {
			return e.ref, true
		}
	}
	return bitRef{}, false
}

func (b Button) String() string {
	for _, e := range buttons {
		if e.button == b {
			return e.name
		}
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// ButtonNames lists every accepted button name.
func ButtonNames() []string {
	names := make([]string, len(buttons))
	for i, e := range buttons {
		names[i] = e.name
	}
	return names
}

func (b Button) MarshalText() ([]byte, error) {
	if _, ok := b.ref(); !ok {
		return nil, fmt.Errorf("unknown button %d", uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Button) UnmarshalText(text []byte) error {
	for _, e := range buttons {
		if strings.EqualFold(e.name, string(text)) {
			*b = e.button
			return nil
		}
	}
	return fmt.Errorf("unknown button %q", string(text))
}

// Trigger names an analog trigger.
type Trigger uint8

const (
	TriggerL2 Trigger = iota + 1
	TriggerR2
)

func (t Trigger) offset() (int, bool) {
	switch t {
	case TriggerL2:
		return OffsetL2Analog, true
	case TriggerR2:
		return OffsetR2Analog, true
	}
	return 0, false
}

func (t Trigger) String() string {
	switch t {
	case TriggerL2:
		return "L2"
	case TriggerR2:
		return "R2"
	}
	return fmt.Sprintf("Trigger(%d)", uint8(t))
}

func (t Trigger) MarshalText() ([]byte, error) {
	if _, ok := t.offset(); !ok {
		return nil, fmt.Errorf("unknown trigger %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Trigger) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "L2":
		*t = TriggerL2
	case "R2":
		*t = TriggerR2
	default:
		return fmt.Errorf("unknown trigger %q", string(text))
	}
	return nil
}

// DPadRange matches hat values in [Min, Max].
type DPadRange struct {
	Min uint8 `json:"min"`
	Max uint8 `json:"max"`
}

// Contains reports whether v lies in the range, bounds included.
func (r DPadRange) Contains(v uint8) bool {
	return v >= r.Min && v <= r.Max
}

// TriggerRule matches when the trigger's analog value reaches Threshold.
type TriggerRule struct {
	Trigger   Trigger `json:"trigger"`
	Threshold uint8   `json:"threshold"`
}

// Rule sets Key when any of its conditions holds.
type Rule struct {
	Key      chord.Key     `json:"key"`
	Buttons  []Button      `json:"buttons,omitempty"`
	DPad     *DPadRange    `json:"dpad,omitempty"`
	Triggers []TriggerRule `json:"triggers,omitempty"`
}

// Mapping is the list of rules a Decoder evaluates. Several rules may target
// the same key; their conditions are OR-ed.
type Mapping []Rule

// Validate checks keys, button names and ranges.
func (m Mapping) Validate() error {
	var errs []error
	for i, r := range m {
		if !r.Key.Valid() {
			errs = append(errs, fmt.Errorf("rule %d: key %d outside 1-%d", i, r.Key, chord.Bits))
		}
		for _, b := range r.Buttons {
			if _, ok := b.ref(); !ok {
				errs = append(errs, fmt.Errorf("rule %d: unknown button %d", i, uint8(b)))
			}
		}
		if r.DPad != nil && (r.DPad.Min > r.DPad.Max || r.DPad.Max > DPadNeutral) {
			errs = append(errs, fmt.Errorf("rule %d: invalid dpad range %d-%d", i, r.DPad.Min, r.DPad.Max))
		}
		for _, tr := range r.Triggers {
			if _, ok := tr.Trigger.offset(); !ok {
				errs = append(errs, fmt.Errorf("rule %d: unknown trigger %d", i, uint8(tr.Trigger)))
			}
		}
	}
	return errors.Join(errs...)
}

// DefaultMapping is the two-handed GKOS assignment:
//
//	key 1: L1                    key 4: R1
//	key 2: D-pad NE..SE or L2    key 5: Square or R2
//	key 3: D-pad SE..SW          key 6: Cross
func DefaultMapping() Mapping {
	return Mapping{
		{Key: chord.Key1, Buttons: []Button{ButtonNameL1}},
		{
			Key:      chord.Key2,
			DPad:     &DPadRange{Min: DPadUpRight, Max: DPadDownRight},
			Triggers: []TriggerRule{{Trigger: TriggerL2, Threshold: DefaultTriggerThreshold}},
		},
		{Key: chord.Key3, DPad: &DPadRange{Min: DPadDownRight, Max: DPadDownLeft}},
		{Key: chord.Key4, Buttons: []Button{ButtonNameR1}},
		{
			Key:      chord.Key5,
			Buttons:  []Button{ButtonNameSquare},
			Triggers: []TriggerRule{{Trigger: TriggerR2, Threshold: DefaultTriggerThreshold}},
		},
		{Key: chord.Key6, Buttons: []Button{ButtonNameCross}},
	}
}
