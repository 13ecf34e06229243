// Package engine wires the chord pipeline together: decode a report, merge
// external key state, debounce, resolve and synthesize.
package engine

import (
	"log/slog"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/keystate"
	"github.com/gkospad/gkospad/layout"
)

// Decoder turns a raw device report into a chord code.
type Decoder interface {
	Decode(report []byte) chord.Code
}

// Resolver maps a chord code to its output.
type Resolver interface {
	Resolve(code chord.Code) layout.Output
}

// Emitter injects a resolved output into the host.
type Emitter interface {
	Emit(out layout.Output) error
}

// ReportLogger receives every report together with the code it decoded to.
type ReportLogger interface {
	LogReport(report []byte, code chord.Code)
}

// Event describes one recognized chord.
type Event struct {
	Code   chord.Code
	Output layout.Output
}

// Options configures an Engine.
type Options struct {
	Chord chord.Config
	// ExternalKeys are the logical keys sourced from KeyState.
	ExternalKeys []chord.Key
	// KeyState may be nil; external keys then read as released.
	KeyState keystate.Source
	Logger   *slog.Logger
	Reports  ReportLogger
}

// Engine runs the recognition pipeline. It is not safe for concurrent use:
// reports must be handled one at a time by a single goroutine.
type Engine struct {
	decoder  Decoder
	resolver Resolver
	emitter  Emitter
	detector *chord.Detector
	reports  [][]byte

	externalKeys []chord.Key
	keyState     keystate.Source
	logger       *slog.Logger
	reportLog    ReportLogger
}

// New builds an engine. The decoder, resolver and emitter are required.
func New(dec Decoder, res Resolver, em Emitter, o Options) (*Engine, error) {
	det, err := chord.NewDetector(o.Chord)
	if err != nil {
		return nil, err
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		decoder:      dec,
		resolver:     res,
		emitter:      em,
		detector:     det,
		reports:      make([][]byte, det.Ring().Len()),
		externalKeys: append([]chord.Key(nil), o.ExternalKeys...),
		keyState:     o.KeyState,
		logger:       logger,
		reportLog:    o.Reports,
	}
	return e, nil
}

// SetMapping swaps the decoder and resolver between reports. The chord
// history is kept.
func (e *Engine) SetMapping(dec Decoder, res Resolver) {
	e.decoder = dec
	e.resolver = res
}

// Detector exposes the debounce state.
func (e *Engine) Detector() *chord.Detector { return e.detector }

// Report returns the raw report received framesAgo reports before the most
// recent one, or nil if that slot has not been filled yet.
func (e *Engine) Report(framesAgo int) []byte {
	return e.reports[e.detector.Ring().Index(framesAgo)]
}

// HandleReport processes one report to completion. It returns the event
// when the report completed a chord, whether or not the chord was bound.
func (e *Engine) HandleReport(report []byte) (Event, bool) {
	code := e.decoder.Decode(report) | e.externalBits()

	if e.reportLog != nil {
		e.reportLog.LogReport(report, code)
	}

	edge := e.detector.Observe(code)
	e.keepReport(report)
	if !edge {
		return Event{}, false
	}

	out := e.resolver.Resolve(code)
	ev := Event{Code: code, Output: out}
	if out.IsUnbound() {
		e.logger.Debug("Chord is unbound", "chord", code)
		return ev, true
	}

	e.logger.Debug("Chord yields", "chord", code, "output", out)
	if err := e.emitter.Emit(out); err != nil {
		e.logger.Warn("failed to synthesize chord output", "chord", code, "output", out, "error", err)
	}
	return ev, true
}

func (e *Engine) keepReport(report []byte) {
	i := e.detector.Ring().Cursor()
	buf := e.reports[i]
	if cap(buf) < len(report) {
		buf = make([]byte, len(report))
	}
	buf = buf[:len(report)]
	copy(buf, report)
	e.reports[i] = buf
}

func (e *Engine) externalBits() chord.Code {
	if e.keyState == nil || !keystate.IsAvailable(e.keyState) {
		return 0
	}
	var c chord.Code
	for _, k := range e.externalKeys {
		if e.keyState.IsHeld(k) {
			c |= k.Bit()
		}
	}
	return c
}
