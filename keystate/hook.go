package keystate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gkospad/gkospad/chord"
)

// Linux input event key codes used by the default bindings.
const (
	KeyCodeF7 uint16 = 65
	KeyCodeF8 uint16 = 66
)

// Binding assigns a host keyboard key to a logical chord key.
type Binding struct {
	HostKey uint16
	Key     chord.Key
}

// DefaultBindings returns F7 -> key 3 and F8 -> key 6.
func DefaultBindings() []Binding {
	return []Binding{
		{HostKey: KeyCodeF7, Key: chord.Key3},
		{HostKey: KeyCodeF8, Key: chord.Key6},
	}
}

// ParseBinding parses "hostkey=logicalkey", e.g. "65=3".
func ParseBinding(s string) (Binding, error) {
	host, logical, ok := strings.Cut(s, "=")
	if !ok {
		return Binding{}, fmt.Errorf("binding %q: expected <hostkey>=<key>", s)
	}
	hk, err := strconv.ParseUint(strings.TrimSpace(host), 0, 16)
	if err != nil {
		return Binding{}, fmt.Errorf("binding %q: host key: %w", s, err)
	}
	lk, err := strconv.ParseUint(strings.TrimSpace(logical), 10, 8)
	if err != nil {
		return Binding{}, fmt.Errorf("binding %q: logical key: %w", s, err)
	}
	k := chord.Key(lk)
	if !k.Valid() {
		return Binding{}, fmt.Errorf("binding %q: logical key must be 1-%d", s, chord.Bits)
	}
	return Binding{HostKey: uint16(hk), Key: k}, nil
}

// Hook translates host key events into Flags updates.
type Hook struct {
	flags    *Flags
	bindings map[uint16]chord.Key
}

// NewHook returns a hook writing to flags.
func NewHook(flags *Flags, bindings []Binding) *Hook {
	m := make(map[uint16]chord.Key, len(bindings))
	for _, b := range bindings {
		m[b.HostKey] = b.Key
	}
	return &Hook{flags: flags, bindings: m}
}

// Flags returns the flag word the hook writes.
func (h *Hook) Flags() *Flags { return h.flags }

// Keys returns the logical keys this hook drives.
func (h *Hook) Keys() []chord.Key {
	var c chord.Code
	for _, k := range h.bindings {
		c = c.With(k)
	}
	return c.Keys()
}

// HandleKey records a key press or release and reports whether the key is
// bound, in which case it should not be passed on to other consumers.
func (h *Hook) HandleKey(hostKey uint16, down bool) bool {
	k, ok := h.bindings[hostKey]
	if !ok {
		return false
	}
	if down {
		h.flags.Press(k)
	} else {
		h.flags.Release(k)
	}
	return true
}
