package chord

import (
	"errors"
	"fmt"
	"time"
)

// Defaults measured on a DualShock 4 over USB.
const (
	DefaultFrameInterval = 4 * time.Millisecond
	DefaultChordTime     = 120 * time.Millisecond
	DefaultHistory       = 3 * time.Second
)

// Config holds the debounce timing. Durations are converted to report
// counts using FrameInterval.
type Config struct {
	FrameInterval time.Duration
	ChordTime     time.Duration
	History       time.Duration
}

// DefaultConfig returns 4ms reports, a 120ms chord window and 3s of history.
func DefaultConfig() Config {
	return Config{
		FrameInterval: DefaultFrameInterval,
		ChordTime:     DefaultChordTime,
		History:       DefaultHistory,
	}
}

// Window returns the debounce window W in reports.
func (c Config) Window() int {
	if c.FrameInterval <= 0 {
		return 0
	}
	return int(c.ChordTime / c.FrameInterval)
}

// Slots returns the ring capacity N in reports.
func (c Config) Slots() int {
	if c.FrameInterval <= 0 {
		return 0
	}
	return int(c.History / c.FrameInterval)
}

// Validate checks 1 <= W <= N-1.
func (c Config) Validate() error {
	if c.FrameInterval <= 0 {
		return errors.New("frame interval must be positive")
	}
	w, n := c.Window(), c.Slots()
	if w < 1 {
		return fmt.Errorf("chord time %s is shorter than one frame (%s)", c.ChordTime, c.FrameInterval)
	}
	if n < 2 {
		return fmt.Errorf("history %s holds fewer than two frames", c.History)
	}
	if w > n-1 {
		return fmt.Errorf("debounce window of %d frames does not fit in a history of %d frames", w, n)
	}
	return nil
}

// Detector pushes chord codes into a ring and reports the rising edge of a
// stable chord: the report at which a code has been seen for W consecutive
// reports while the report before that run differed.
type Detector struct {
	ring   *Ring
	window int
}

// NewDetector builds a detector from cfg.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{ring: NewRing(cfg.Slots()), window: cfg.Window()}, nil
}

// Window returns W.
func (d *Detector) Window() int { return d.window }

// Ring exposes the chord history.
func (d *Detector) Ring() *Ring { return d.ring }

// Observe records c as the newest frame and reports whether c just became
// stable.
func (d *Detector) Observe(c Code) bool {
	d.ring.Push(Frame{Code: c})
	return d.risingEdge(c)
}

func (d *Detector) risingEdge(c Code) bool {
	if c == 0 {
		return false
	}
	for i := 1; i < d.window; i++ {
		if d.ring.Get(i).Code != c {
			return false
		}
	}
	return d.ring.Get(d.window).Code != c
}
