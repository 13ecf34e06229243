package layout_test

import (
	"testing"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/device/keyboard"
	"github.com/gkospad/gkospad/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Letters(t *testing.T) {
	l := layout.Default()
	tests := []struct {
		layer layout.Layer
		code  chord.Code
		want  layout.Output
	}{
		{layout.LayerABC, 0x01, layout.Text("a")},
		{layout.LayerABC, 0x05, layout.Text("th")},
		{layout.LayerABC, 0x07, layout.Key(keyboard.KeyBackspace)},
		{layout.LayerABC, 0x38, layout.Key(keyboard.KeySpace)},
		{layout.LayerABC, 0x3B, layout.Key(keyboard.KeyEnter)},
		{layout.LayerABC, 0x17, layout.Unbound},
		{layout.LayerABC, 0x2D, layout.Unbound},
		{layout.LayerABC, 0x3A, layout.Unbound},
		{layout.LayerABC, 0x3F, layout.Unbound},
		{layout.LayerSymbol, 0x01, layout.Text("1")},
		{layout.LayerSymbol, 0x18, layout.Text("0")},
		{layout.LayerSymbol, 0x07, layout.Unbound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Resolve(tt.layer, tt.code), "%s %s", tt.layer, tt.code)
	}
}

func TestDefault_ZeroIsUnbound(t *testing.T) {
	for _, layer := range layout.Layers() {
		assert.True(t, layout.Default().Resolve(layer, 0).IsUnbound())
	}
}

func TestResolve_Total(t *testing.T) {
	l := layout.Default()
	for _, layer := range append(layout.Layers(), layout.Layer(7)) {
		for c := range 256 {
			assert.NotPanics(t, func() { l.Resolve(layer, chord.Code(c)) })
		}
	}
	assert.True(t, l.Resolve(layout.LayerABC, 0x40).IsUnbound())
	assert.True(t, l.Resolve(layout.Layer(7), 0x01).IsUnbound())

	var nilTable *layout.Table
	assert.True(t, nilTable.Resolve(0x01).IsUnbound())
	assert.Equal(t, layout.Entry{}, nilTable.Entry(0x01))
}

func TestDefault_Bound(t *testing.T) {
	assert.Equal(t, 59, layout.DefaultTable(layout.LayerABC).Bound())
	assert.Equal(t, 35, layout.DefaultTable(layout.LayerSymbol).Bound())
	assert.Zero(t, layout.DefaultTable(layout.Layer(9)).Bound())
}

func TestNewTable(t *testing.T) {
	tbl, err := layout.NewTable(map[chord.Code]layout.Entry{
		0x01: {Text: "x"},
		0x02: {Key: keyboard.KeyTab},
		0x03: {},
	})
	require.NoError(t, err)
	assert.Equal(t, layout.Text("x"), tbl.Resolve(0x01))
	assert.Equal(t, layout.Key(keyboard.KeyTab), tbl.Resolve(0x02))
	assert.Equal(t, layout.Unbound, tbl.Resolve(0x03))
	assert.Equal(t, 2, tbl.Bound())

	_, err = layout.NewTable(map[chord.Code]layout.Entry{0x01: {Text: "x", Key: keyboard.KeyTab}})
	assert.ErrorIs(t, err, layout.ErrInvalidEntry)

	for _, c := range []chord.Code{0, 0x40} {
		_, err = layout.NewTable(map[chord.Code]layout.Entry{c: {Text: "x"}})
		assert.ErrorContains(t, err, "code outside", "code %d", c)
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in      string
		want    layout.Layer
		wantErr bool
	}{
		{"abc", layout.LayerABC, false},
		{"", layout.LayerABC, false},
		{" Symbol ", layout.LayerSymbol, false},
		{"123", layout.LayerSymbol, false},
		{"greek", 0, true},
	}
	for _, tt := range tests {
		got, err := layout.ParseLayer(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "symbol", layout.LayerSymbol.String())
	assert.Equal(t, "layer(5)", layout.Layer(5).String())
}

func TestEntryFor(t *testing.T) {
	e, err := layout.EntryFor("", "pageup")
	require.NoError(t, err)
	assert.Equal(t, layout.Entry{Key: keyboard.KeyPageUp}, e)

	e, err = layout.EntryFor("hi", "")
	require.NoError(t, err)
	assert.Equal(t, layout.Entry{Text: "hi"}, e)

	_, err = layout.EntryFor("hi", "Enter")
	assert.ErrorIs(t, err, layout.ErrInvalidEntry)

	_, err = layout.EntryFor("", "Hyper")
	assert.ErrorContains(t, err, "unknown key name")
}

func TestOutput(t *testing.T) {
	assert.Equal(t, layout.Unbound, layout.Text(""))
	assert.Equal(t, layout.Unbound, layout.Key(0))
	assert.Equal(t, layout.KindText, layout.Text("a").Kind())
	assert.Equal(t, `text "a"`, layout.Text("a").String())
	assert.Equal(t, "key Enter", layout.Key(keyboard.KeyEnter).String())
	assert.Equal(t, "key 0xF0", layout.Key(0xF0).String())
	assert.Equal(t, "unbound", layout.Unbound.String())
	assert.Equal(t, layout.Unbound, layout.Entry{Text: "a", Key: 1}.Output())
}
