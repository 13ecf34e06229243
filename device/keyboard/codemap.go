package keyboard

import (
	"fmt"
	"strings"
)

var namedKeys = []struct {
	code uint8
	name string
}{
	{KeyEnter, "Enter"},
	{KeyEscape, "Escape"},
	{KeyBackspace, "Backspace"},
	{KeyTab, "Tab"},
	{KeySpace, "Space"},
	{KeyMinus, "Minus"},
	{KeyEqual, "Equal"},
	{KeyLeftBrace, "LeftBrace"},
	{KeyRightBrace, "RightBrace"},
	{KeyBackslash, "Backslash"},
	{KeySemicolon, "Semicolon"},
	{KeyApostrophe, "Apostrophe"},
	{KeyGrave, "Grave"},
	{KeyComma, "Comma"},
	{KeyPeriod, "Period"},
	{KeySlash, "Slash"},
	{KeyCapsLock, "CapsLock"},
	{KeyPrintScreen, "PrintScreen"},
	{KeyScrollLock, "ScrollLock"},
	{KeyPause, "Pause"},
	{KeyInsert, "Insert"},
	{KeyHome, "Home"},
	{KeyPageUp, "PageUp"},
	{KeyDelete, "Delete"},
	{KeyEnd, "End"},
	{KeyPageDown, "PageDown"},
	{KeyRight, "Right"},
	{KeyLeft, "Left"},
	{KeyDown, "Down"},
	{KeyUp, "Up"},
	{KeyApplication, "Application"},
	{KeyLeftCtrl, "LeftCtrl"},
	{KeyLeftShift, "LeftShift"},
	{KeyLeftAlt, "LeftAlt"},
	{KeyLeftGUI, "LeftGUI"},
	{KeyRightCtrl, "RightCtrl"},
	{KeyRightShift, "RightShift"},
	{KeyRightAlt, "RightAlt"},
	{KeyRightGUI, "RightGUI"},
}

// KeyName maps HID usage codes to the names accepted by Lookup.
var KeyName = map[uint8]string{}

var codeByName = map[string]uint8{}

// CharToKey maps ASCII characters to the HID usage code that types them.
var CharToKey = map[byte]uint8{}

// ShiftChars holds the characters that need Shift held.
var ShiftChars = map[byte]bool{}

func init() {
	for i := uint8(0); i <= KeyZ-KeyA; i++ {
		addName(KeyA+i, string(rune('A'+i)))
		addChar('a'+i, KeyA+i, false)
		addChar('A'+i, KeyA+i, true)
	}
	const digits, shifted = "1234567890", "!@#$%^&*()"
	for i := range len(digits) {
		code := Key1 + uint8(i)
		addName(code, digits[i:i+1])
		addChar(digits[i], code, false)
		addChar(shifted[i], code, true)
	}
	for i := uint8(0); i <= KeyF12-KeyF1; i++ {
		addName(KeyF1+i, fmt.Sprintf("F%d", i+1))
	}
	for _, k := range namedKeys {
		addName(k.code, k.name)
	}

	for _, p := range []struct {
		code           uint8
		plain, shifted byte
	}{
		{KeyMinus, '-', '_'},
		{KeyEqual, '=', '+'},
		{KeyLeftBrace, '[', '{'},
		{KeyRightBrace, ']', '}'},
		{KeyBackslash, '\\', '|'},
		{KeySemicolon, ';', ':'},
		{KeyApostrophe, '\'', '"'},
		{KeyGrave, '`', '~'},
		{KeyComma, ',', '<'},
		{KeyPeriod, '.', '>'},
		{KeySlash, '/', '?'},
	} {
		addChar(p.plain, p.code, false)
		addChar(p.shifted, p.code, true)
	}
	addChar(' ', KeySpace, false)
	addChar('\t', KeyTab, false)
	addChar('\n', KeyEnter, false)
	addChar('\r', KeyEnter, false)
}

func addName(code uint8, name string) {
	KeyName[code] = name
	codeByName[strings.ToLower(name)] = code
}

func addChar(c byte, code uint8, shift bool) {
	CharToKey[c] = code
	if shift {
		ShiftChars[c] = true
	}
}

// Lookup resolves a key name (case-insensitive) to its usage code.
func Lookup(name string) (uint8, bool) {
	code, ok := codeByName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// CharToHID converts an ASCII character to its usage code, or 0 when the
// character cannot be typed.
func CharToHID(c byte) uint8 {
	return CharToKey[c]
}

// NeedsShift reports whether c is typed with Shift held.
func NeedsShift(c byte) bool {
	return ShiftChars[c]
}
