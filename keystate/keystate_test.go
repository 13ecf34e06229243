package keystate_test

import (
	"sync"
	"testing"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/keystate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alwaysHeld struct{}

func (alwaysHeld) IsHeld(chord.Key) bool { return true }

func TestFlags(t *testing.T) {
	f := keystate.NewFlags()
	assert.True(t, f.Available())
	assert.False(t, f.IsHeld(chord.Key3))

	f.Press(chord.Key3)
	f.Press(chord.Key6)
	assert.True(t, f.IsHeld(chord.Key3))
	assert.True(t, f.IsHeld(chord.Key6))
	assert.Equal(t, uint32(1<<3|1<<6), f.Snapshot())

	f.Release(chord.Key3)
	assert.False(t, f.IsHeld(chord.Key3))
	assert.True(t, f.IsHeld(chord.Key6))

	f.Press(chord.Key(0))
	f.Press(chord.Key(9))
	assert.False(t, f.IsHeld(chord.Key(9)))
	assert.Equal(t, uint32(1<<6), f.Snapshot())
}

func TestFlags_UnavailableClears(t *testing.T) {
	f := keystate.NewFlags()
	f.Press(chord.Key6)
	f.SetAvailable(false)
	assert.False(t, keystate.IsAvailable(f))
	assert.Zero(t, f.Snapshot())
	f.SetAvailable(true)
	assert.True(t, keystate.IsAvailable(f))
}

func TestFlags_ConcurrentWriters(t *testing.T) {
	f := keystate.NewFlags()
	var wg sync.WaitGroup
	for _, k := range []chord.Key{chord.Key1, chord.Key2, chord.Key3, chord.Key4, chord.Key5, chord.Key6} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				f.Press(k)
				_ = f.IsHeld(k)
				f.Release(k)
			}
			f.Press(k)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(0x7E), f.Snapshot())
}

func TestIsAvailable(t *testing.T) {
	assert.False(t, keystate.IsAvailable(nil))
	assert.True(t, keystate.IsAvailable(alwaysHeld{}))
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    keystate.Binding
		wantErr string
	}{
		{"65=3", keystate.Binding{HostKey: 65, Key: chord.Key3}, ""},
		{" 0x42 = 6 ", keystate.Binding{HostKey: 0x42, Key: chord.Key6}, ""},
		{"65", keystate.Binding{}, "expected"},
		{"f7=3", keystate.Binding{}, "host key"},
		{"65=x", keystate.Binding{}, "logical key"},
		{"65=0", keystate.Binding{}, "must be 1-6"},
		{"65=7", keystate.Binding{}, "must be 1-6"},
		{"70000=1", keystate.Binding{}, "host key"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := keystate.ParseBinding(tt.in)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHook(t *testing.T) {
	flags := keystate.NewFlags()
	hook := keystate.NewHook(flags, keystate.DefaultBindings())
	assert.Same(t, flags, hook.Flags())
	assert.Equal(t, []chord.Key{chord.Key3, chord.Key6}, hook.Keys())

	assert.True(t, hook.HandleKey(keystate.KeyCodeF8, true))
	assert.True(t, flags.IsHeld(chord.Key6))
	assert.False(t, hook.HandleKey(30, true), "unbound keys pass through")
	assert.True(t, hook.HandleKey(keystate.KeyCodeF8, false))
	assert.False(t, flags.IsHeld(chord.Key6))
}
