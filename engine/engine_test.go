package engine_test

import (
	"errors"
	"testing"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/engine"
	"github.com/gkospad/gkospad/keystate"
	"github.com/gkospad/gkospad/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteDecoder reads the chord code from the first byte of the report.
type byteDecoder struct{}

func (byteDecoder) Decode(report []byte) chord.Code {
	if len(report) == 0 {
		return 0
	}
	return chord.Code(report[0]) & chord.Mask
}

type tableResolver map[chord.Code]layout.Output

func (t tableResolver) Resolve(code chord.Code) layout.Output { return t[code] }

type recordEmitter struct {
	outs []layout.Output
	err  error
}

func (r *recordEmitter) Emit(out layout.Output) error {
	r.outs = append(r.outs, out)
	return r.err
}

type recordReports struct {
	codes []chord.Code
}

func (r *recordReports) LogReport(_ []byte, code chord.Code) {
	r.codes = append(r.codes, code)
}

var testTable = tableResolver{
	0x01: layout.Text("a"),
	0x05: layout.Text("th"),
	0x21: layout.Text("?"),
	0x3F: layout.Key(0x29),
}

func newEngine(t *testing.T, em engine.Emitter, o engine.Options) *engine.Engine {
	t.Helper()
	o.Chord = chord.DefaultConfig()
	e, err := engine.New(byteDecoder{}, testTable, em, o)
	require.NoError(t, err)
	return e
}

// run feeds each code as a one-byte report n times.
func run(e *engine.Engine, n int, codes ...byte) []engine.Event {
	var events []engine.Event
	for _, c := range codes {
		for range n {
			if ev, ok := e.HandleReport([]byte{c}); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

func TestEngine_EmitsOncePerPress(t *testing.T) {
	em := &recordEmitter{}
	e := newEngine(t, em, engine.Options{})
	w := e.Detector().Window()

	events := run(e, 2*w, 0x05, 0x00, 0x05)
	require.Len(t, events, 2)
	assert.Equal(t, engine.Event{Code: 0x05, Output: layout.Text("th")}, events[0])
	assert.Equal(t, []layout.Output{layout.Text("th"), layout.Text("th")}, em.outs)
}

func TestEngine_ExactWindowFires(t *testing.T) {
	em := &recordEmitter{}
	e := newEngine(t, em, engine.Options{})
	events := run(e, e.Detector().Window(), 0x05)
	assert.Len(t, events, 1)
}

func TestEngine_UnboundNeverEmits(t *testing.T) {
	em := &recordEmitter{}
	e := newEngine(t, em, engine.Options{})
	events := run(e, 3*e.Detector().Window(), 0x02, 0x00, 0x02)
	require.Len(t, events, 2)
	assert.True(t, events[0].Output.IsUnbound())
	assert.Empty(t, em.outs)
}

func TestEngine_EmitErrorIsNotFatal(t *testing.T) {
	em := &recordEmitter{err: errors.New("queue full")}
	e := newEngine(t, em, engine.Options{})
	events := run(e, 2*e.Detector().Window(), 0x01, 0x00, 0x01)
	assert.Len(t, events, 2)
	assert.Len(t, em.outs, 2)
}

func TestEngine_MergesExternalKeys(t *testing.T) {
	flags := keystate.NewFlags()
	em := &recordEmitter{}
	e := newEngine(t, em, engine.Options{
		ExternalKeys: []chord.Key{chord.Key6},
		KeyState:     flags,
	})
	w := e.Detector().Window()

	flags.Press(chord.Key6)
	flags.Press(chord.Key3) // not an external key
	events := run(e, w, 0x01)
	require.Len(t, events, 1)
	assert.Equal(t, chord.Code(0x21), events[0].Code)
	assert.Equal(t, []layout.Output{layout.Text("?")}, em.outs)
}

func TestEngine_ExternalKeyResetsWindow(t *testing.T) {
	flags := keystate.NewFlags()
	e := newEngine(t, &recordEmitter{}, engine.Options{
		ExternalKeys: []chord.Key{chord.Key6},
		KeyState:     flags,
	})
	w := e.Detector().Window()

	assert.Empty(t, run(e, w-1, 0x01))
	flags.Press(chord.Key6)
	assert.Empty(t, run(e, w-1, 0x01), "merged code restarts the run")
	ev, ok := e.HandleReport([]byte{0x01})
	require.True(t, ok)
	assert.Equal(t, chord.Code(0x21), ev.Code)
}

func TestEngine_UnavailableKeyStateReadsReleased(t *testing.T) {
	flags := keystate.NewFlags()
	flags.Press(chord.Key6)
	flags.SetAvailable(false)
	flags.Press(chord.Key6)

	e := newEngine(t, &recordEmitter{}, engine.Options{
		ExternalKeys: []chord.Key{chord.Key6},
		KeyState:     flags,
	})
	events := run(e, e.Detector().Window(), 0x01)
	require.Len(t, events, 1)
	assert.Equal(t, chord.Code(0x01), events[0].Code)
}

func TestEngine_NilKeyState(t *testing.T) {
	e := newEngine(t, &recordEmitter{}, engine.Options{ExternalKeys: []chord.Key{chord.Key3, chord.Key6}})
	assert.NotPanics(t, func() { run(e, 2*e.Detector().Window(), 0x01) })
}

func TestEngine_ReportHistory(t *testing.T) {
	reports := &recordReports{}
	e := newEngine(t, &recordEmitter{}, engine.Options{Reports: reports})
	assert.Nil(t, e.Report(0))

	e.HandleReport([]byte{0x01, 0xAA})
	e.HandleReport([]byte{0x02})
	e.HandleReport([]byte{0x03, 0xBB, 0xCC})

	assert.Equal(t, []byte{0x03, 0xBB, 0xCC}, e.Report(0))
	assert.Equal(t, []byte{0x02}, e.Report(1))
	assert.Equal(t, []byte{0x01, 0xAA}, e.Report(2))
	assert.Equal(t, chord.Code(0x02), e.Detector().Ring().Get(1).Code)
	assert.Equal(t, []chord.Code{0x01, 0x02, 0x03}, reports.codes)

	buf := []byte{0x04}
	e.HandleReport(buf)
	buf[0] = 0x3F
	assert.Equal(t, []byte{0x04}, e.Report(0), "reports are copied")
}

func TestEngine_SetMapping(t *testing.T) {
	em := &recordEmitter{}
	e := newEngine(t, em, engine.Options{})
	w := e.Detector().Window()

	run(e, 2*w, 0x01, 0x00)
	e.SetMapping(byteDecoder{}, tableResolver{0x01: layout.Text("z")})
	run(e, 2*w, 0x01)
	assert.Equal(t, []layout.Output{layout.Text("a"), layout.Text("z")}, em.outs)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := engine.New(byteDecoder{}, testTable, &recordEmitter{}, engine.Options{})
	assert.Error(t, err)
}
