package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/device/keyboard"
)

// ErrInvalidEntry is returned for entries that bind both text and a key.
var ErrInvalidEntry = errors.New("entry binds both text and a key")

// Entry is one table slot. At most one of Text and Key is set; an entry with
// neither is defined but unbound.
type Entry struct {
	Text string
	Key  uint8
}

// Output converts e. Entries binding both fields are treated as unbound;
// tables built through NewTable never contain them.
func (e Entry) Output() Output {
	switch {
	case e.Text != "" && e.Key != 0:
		return Unbound
	case e.Text != "":
		return Text(e.Text)
	default:
		return Key(e.Key)
	}
}

// Table maps every chord code to an output. A Table is read-only once built.
type Table struct {
	entries [chord.Space]Entry
}

// NewTable builds a table from sparse entries. Code 0 cannot be bound.
func NewTable(entries map[chord.Code]Entry) (*Table, error) {
	t := &Table{}
	for code, e := range entries {
		if code == 0 || code > chord.Mask {
			return nil, fmt.Errorf("chord %s: code outside 0x01-0x%02X", code, uint8(chord.Mask))
		}
		if e.Text != "" && e.Key != 0 {
			return nil, fmt.Errorf("chord %s: %w", code, ErrInvalidEntry)
		}
		t.entries[code] = e
	}
	return t, nil
}

// Resolve returns the output bound to code. It is total: unknown codes are
// Unbound.
func (t *Table) Resolve(code chord.Code) Output {
	if t == nil || int(code) >= chord.Space {
		return Unbound
	}
	return t.entries[code].Output()
}

// Entry returns the raw slot for code.
func (t *Table) Entry(code chord.Code) Entry {
	if t == nil || int(code) >= chord.Space {
		return Entry{}
	}
	return t.entries[code]
}

// Bound returns the number of codes with an output.
func (t *Table) Bound() int {
	n := 0
	for _, e := range t.entries {
		if !e.Output().IsUnbound() {
			n++
		}
	}
	return n
}

// Layer selects one of the layout's tables.
type Layer uint8

const (
	LayerABC Layer = iota
	LayerSymbol

	numLayers
)

func (l Layer) String() string {
	switch l {
	case LayerABC:
		return "abc"
	case LayerSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// ParseLayer accepts "abc" or "symbol".
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abc", "":
		return LayerABC, nil
	case "symbol", "symb", "123":
		return LayerSymbol, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", s)
	}
}

// Layers lists all layers.
func Layers() []Layer {
	return []Layer{LayerABC, LayerSymbol}
}

// Layout indexes tables by {layer, code}.
type Layout struct {
	tables [numLayers]*Table
}

// New assembles a layout. Missing layers resolve every code as Unbound.
func New(tables map[Layer]*Table) *Layout {
	l := &Layout{}
	for layer, t := range tables {
		if layer < numLayers {
			l.tables[layer] = t
		}
	}
	return l
}

// Table returns the table of layer, or nil.
func (l *Layout) Table(layer Layer) *Table {
	if layer >= numLayers {
		return nil
	}
	return l.tables[layer]
}

// Resolve looks up code in layer.
func (l *Layout) Resolve(layer Layer, code chord.Code) Output {
	return l.Table(layer).Resolve(code)
}

// EntryFor builds an entry from a text literal or a key name; exactly one of
// text and keyName may be non-empty.
func EntryFor(text, keyName string) (Entry, error) {
	if text != "" && keyName != "" {
		return Entry{}, ErrInvalidEntry
	}
	if keyName == "" {
		return Entry{Text: text}, nil
	}
	code, ok := keyboard.Lookup(keyName)
	if !ok {
		return Entry{}, fmt.Errorf("unknown key name %q", keyName)
	}
	return Entry{Key: code}, nil
}
