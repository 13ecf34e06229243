package synth_test

import (
	"context"
	"encoding"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/device/keyboard"
	"github.com/gkospad/gkospad/layout"
	"github.com/gkospad/gkospad/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	states []keyboard.InputState
	err    error
}

func (r *recordSink) Send(st keyboard.InputState) error {
	if r.err != nil {
		return r.err
	}
	r.states = append(r.states, st)
	return nil
}

func TestEmit(t *testing.T) {
	tests := []struct {
		name string
		out  layout.Output
		want []keyboard.InputState
	}{
		{
			name: "key",
			out:  layout.Key(keyboard.KeyBackspace),
			want: []keyboard.InputState{keyboard.PressKey(keyboard.KeyBackspace), keyboard.Release()},
		},
		{
			name: "modifier key",
			out:  layout.Key(keyboard.KeyLeftCtrl),
			want: []keyboard.InputState{{Modifiers: keyboard.ModLeftCtrl}, keyboard.Release()},
		},
		{
			name: "lower case text",
			out:  layout.Text("a"),
			want: []keyboard.InputState{keyboard.PressKey(keyboard.KeyA), keyboard.Release()},
		},
		{
			name: "shifted text",
			out:  layout.Text("?"),
			want: []keyboard.InputState{keyboard.PressKeyWithMod(keyboard.ModLeftShift, keyboard.KeySlash), keyboard.Release()},
		},
		{
			name: "multi character text types the first character",
			out:  layout.Text("the "),
			want: []keyboard.InputState{keyboard.PressKey(keyboard.KeyA + ('t' - 'a')), keyboard.Release()},
		},
		{
			name: "untypeable character",
			out:  layout.Text("´"),
		},
		{
			name: "unbound",
			out:  layout.Unbound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordSink{}
			require.NoError(t, synth.New(sink, nil).Emit(tt.out))
			assert.Equal(t, tt.want, sink.states)
		})
	}
}

func TestEmit_SinkError(t *testing.T) {
	sink := &recordSink{err: errors.New("gone")}
	err := synth.New(sink, nil).Emit(layout.Key(keyboard.KeyEnter))
	assert.EqualError(t, err, "gone")
}

func TestStrokes_PressThenRelease(t *testing.T) {
	for code := range 64 {
		out := layout.Default().Resolve(layout.LayerABC, chord.Code(code))
		strokes := synth.Strokes(out)
		if len(strokes) == 0 {
			continue
		}
		require.Len(t, strokes, 2)
		assert.NotEqual(t, keyboard.Release(), strokes[0], "chord 0x%02X", code)
		assert.Equal(t, keyboard.Release(), strokes[1], "chord 0x%02X", code)
	}
}

type fakeWriter struct {
	mu     sync.Mutex
	states [][]byte
	err    error
	wrote  chan struct{}
}

func (f *fakeWriter) WriteBinary(v encoding.BinaryMarshaler) error {
	b, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.states = append(f.states, b)
	if f.wrote != nil {
		f.wrote <- struct{}{}
	}
	return nil
}

func (f *fakeWriter) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.states...)
}

func TestStreamSink_WritesInOrder(t *testing.T) {
	w := &fakeWriter{wrote: make(chan struct{}, 8)}
	sink := synth.NewStreamSink(w, time.Millisecond, 8, nil)
	require.NoError(t, synth.New(sink, nil).Emit(layout.Text("A")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sink.Run(ctx) }()

	for range 2 {
		select {
		case <-w.wrote:
		case <-time.After(2 * time.Second):
			t.Fatal("state not written")
		}
	}
	cancel()
	require.NoError(t, <-done)

	got := w.written()
	require.Len(t, got, 3)
	assert.Equal(t, []byte{keyboard.ModLeftShift, 1, keyboard.KeyA}, got[0])
	assert.Equal(t, []byte{0, 0}, got[1])
	assert.Equal(t, []byte{0, 0}, got[2], "release on shutdown")
}

func TestStreamSink_QueueFull(t *testing.T) {
	sink := synth.NewStreamSink(&fakeWriter{}, 0, 2, nil)
	require.NoError(t, sink.Send(keyboard.PressKey(keyboard.KeyA)))
	require.NoError(t, sink.Send(keyboard.Release()))
	assert.ErrorIs(t, sink.Send(keyboard.Release()), synth.ErrQueueFull)
}

func TestStreamSink_WriteError(t *testing.T) {
	sink := synth.NewStreamSink(&fakeWriter{err: errors.New("broken pipe")}, 0, 2, nil)
	require.NoError(t, sink.Send(keyboard.Release()))
	err := sink.Run(context.Background())
	assert.ErrorContains(t, err, "broken pipe")
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, synth.LogSink{}.Send(keyboard.PressKey(keyboard.KeyEnter)))
}
