package layout

import (
	"github.com/gkospad/gkospad/chord"
	kb "github.com/gkospad/gkospad/device/keyboard"
)

func t(s string) Entry   { return Entry{Text: s} }
func k(code uint8) Entry { return Entry{Key: code} }

// English GKOS letters. Codes 0x17, 0x2D, 0x3A and 0x3F (word left, SYMB,
// word right, ABC-123) are reserved and left unbound.
var abcEntries = map[chord.Code]Entry{
	0x01: t("a"), 0x02: t("b"), 0x03: t("o"), 0x04: t("c"),
	0x05: t("th"), 0x06: t("s"), 0x07: k(kb.KeyBackspace), 0x08: t("t"),
	0x09: k(kb.KeyUp), 0x0A: t("'"), 0x0B: t("p"), 0x0C: t("!"),
	0x0D: t("that "), 0x0E: t("d"), 0x0F: k(kb.KeyLeft), 0x10: t("e"),
	0x11: t("-"), 0x12: k(kb.KeyLeftShift), 0x13: t("q"), 0x14: t(","),
	0x15: t("the "), 0x16: t("u"), 0x18: t("i"),
	0x19: t("h"), 0x1A: t("g"), 0x1B: k(kb.KeyPageUp), 0x1C: t("j"),
	0x1D: t("to "), 0x1E: t("/"), 0x1F: k(kb.KeyEscape), 0x20: t("r"),
	0x21: t("?"), 0x22: t("."), 0x23: t("f"), 0x24: k(kb.KeyDown),
	0x25: t("of "), 0x26: t("v"), 0x27: k(kb.KeyHome), 0x28: t("w"),
	0x29: t("x"), 0x2A: t("y"), 0x2B: k(kb.KeyInsert), 0x2C: t("z"),
	0x2E: t("wh"), 0x2F: k(kb.KeyLeftCtrl), 0x30: t("n"),
	0x31: t("l"), 0x32: t("m"), 0x33: t("\\"), 0x34: t("k"),
	0x35: t("and "), 0x36: k(kb.KeyPageDown), 0x37: k(kb.KeyLeftAlt), 0x38: k(kb.KeySpace),
	0x39: k(kb.KeyRight), 0x3B: k(kb.KeyEnter), 0x3C: k(kb.KeyEnd),
	0x3D: k(kb.KeyTab), 0x3E: k(kb.KeyDelete),
}

// Digits and punctuation. Navigation chords of the letter layer have no
// symbol counterpart here; currency and section signs cannot be typed on
// the HID keyboard and are left out.
var symbolEntries = map[chord.Code]Entry{
	0x01: t("1"), 0x02: t("2"), 0x03: t("+"), 0x04: t("3"),
	0x05: t(")"), 0x06: t("*"), 0x08: t("4"),
	0x0A: t("\""), 0x0B: t("%"), 0x0C: t("|"),
	0x0D: t("]"), 0x0E: t("$"), 0x10: t("5"),
	0x11: t("_"), 0x13: t("="), 0x14: t(";"),
	0x15: t(">"), 0x18: t("0"),
	0x19: t("7"), 0x1A: t("8"), 0x1C: t("9"),
	0x1E: t("´"), 0x20: t("6"),
	0x21: t("~"), 0x22: t(":"), 0x23: t("^"),
	0x25: t("}"), 0x28: t("("),
	0x29: t("["), 0x2A: t("<"), 0x2C: t("{"),
	0x30: t("#"), 0x31: t("@"), 0x33: t("`"), 0x34: t("&"),
}

// DefaultTable returns the built-in table of layer.
func DefaultTable(layer Layer) *Table {
	var entries map[chord.Code]Entry
	switch layer {
	case LayerABC:
		entries = abcEntries
	case LayerSymbol:
		entries = symbolEntries
	default:
		return &Table{}
	}
	tbl, err := NewTable(entries)
	if err != nil {
		panic("layout: invalid built-in table: " + err.Error())
	}
	return tbl
}

// Default returns the English GKOS layout with both layers.
func Default() *Layout {
	return New(map[Layer]*Table{
		LayerABC:    DefaultTable(LayerABC),
		LayerSymbol: DefaultTable(LayerSymbol),
	})
}
