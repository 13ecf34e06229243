// Package synth turns resolved chord outputs into keyboard reports and
// hands them to a sink.
package synth

import (
	"log/slog"

	"github.com/gkospad/gkospad/device/keyboard"
	"github.com/gkospad/gkospad/layout"
)

// Sink receives keyboard states in the order they must reach the host.
type Sink interface {
	Send(st keyboard.InputState) error
}

// Synthesizer emits a key-down/key-up pair per output.
type Synthesizer struct {
	sink   Sink
	logger *slog.Logger
}

// New returns a synthesizer writing to sink.
func New(sink Sink, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{sink: sink, logger: logger}
}

// Emit synthesizes out. Text outputs type only their first character;
// characters without a key on the HID keyboard produce nothing.
func (s *Synthesizer) Emit(out layout.Output) error {
	strokes := Strokes(out)
	if len(strokes) == 0 {
		if out.Kind() == layout.KindText {
			s.logger.Debug("No key types character", "text", out.TextValue())
		}
		return nil
	}
	for _, st := range strokes {
		if err := s.sink.Send(st); err != nil {
			return err
		}
	}
	return nil
}

// Strokes returns the press and release states for out, or nil when out
// produces no keystroke.
func Strokes(out layout.Output) []keyboard.InputState {
	switch out.Kind() {
	case layout.KindKey:
		return []keyboard.InputState{keyboard.PressKey(out.KeyCode()), keyboard.Release()}
	case layout.KindText:
		c := out.TextValue()[0]
		code := keyboard.CharToHID(c)
		if code == 0 {
			return nil
		}
		var mods uint8
		if keyboard.NeedsShift(c) {
			mods = keyboard.ModLeftShift
		}
		return []keyboard.InputState{keyboard.PressKeyWithMod(mods, code), keyboard.Release()}
	default:
		return nil
	}
}
