// Package dualshock4 decodes DualShock 4 USB input reports into GKOS chord
// codes.
package dualshock4

import (
	"github.com/gkospad/gkospad/chord"
)

type condition struct {
	offset int
	// exactly one of the following applies
	mask      uint8
	dpad      *DPadRange
	threshold uint8
	analog    bool
}

func (c condition) holds(report []byte) bool {
	if c.offset >= len(report) {
		return false
	}
	v := report[c.offset]
	switch {
	case c.dpad != nil:
		return c.dpad.Contains(v & DPadMask)
	case c.analog:
		return v >= c.threshold
	default:
		return v&c.mask != 0
	}
}

type compiledRule struct {
	bit        chord.Code
	conditions []condition
}

// Decoder evaluates a Mapping against reports. It holds no state between
// reports and is safe for concurrent use.
type Decoder struct {
	rules  []compiledRule
	minLen int
}

// NewDecoder compiles m.
func NewDecoder(m Mapping) (*Decoder, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	d := &Decoder{}
	for _, r := range m {
		cr := compiledRule{bit: r.Key.Bit()}
		for _, b := range r.Buttons {
			ref, _ := b.ref()
			cr.conditions = append(cr.conditions, condition{offset: ref.offset, mask: ref.mask})
		}
		if r.DPad != nil {
			rng := *r.DPad
			cr.conditions = append(cr.conditions, condition{offset: OffsetFaceDPad, dpad: &rng})
		}
		for _, tr := range r.Triggers {
			off, _ := tr.Trigger.offset()
			cr.conditions = append(cr.conditions, condition{offset: off, analog: true, threshold: tr.Threshold})
		}
		for _, c := range cr.conditions {
			d.minLen = max(d.minLen, c.offset+1)
		}
		d.rules = append(d.rules, cr)
	}
	return d, nil
}

// MustDefault returns a decoder for DefaultMapping.
func MustDefault() *Decoder {
	d, err := NewDecoder(DefaultMapping())
	if err != nil {
		panic(err)
	}
	return d
}

// Decode returns the chord code held in report. Reports too short for the
// mapping decode to 0.
func (d *Decoder) Decode(report []byte) chord.Code {
	if len(report) < d.minLen {
		return 0
	}
	var code chord.Code
	for _, r := range d.rules {
		if code&r.bit != 0 {
			continue
		}
		for _, c := range r.conditions {
			if c.holds(report) {
				code |= r.bit
				break
			}
		}
	}
	return code
}
