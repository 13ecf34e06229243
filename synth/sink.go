package synth

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gkospad/gkospad/device/keyboard"
	gklog "github.com/gkospad/gkospad/internal/log"
)

// DefaultHold is the minimum time a state stays on the virtual keyboard
// before the next one replaces it.
const DefaultHold = 16 * time.Millisecond

// ErrQueueFull is returned by StreamSink.Send when the writer falls behind.
var ErrQueueFull = errors.New("synthesizer queue full")

// StateWriter is a device stream accepting keyboard states, such as a
// VIIPER virtual keyboard.
type StateWriter interface {
	WriteBinary(v encoding.BinaryMarshaler) error
}

// StreamSink forwards states to a StateWriter from its own goroutine, keeping
// each state for at least hold so the host polls every press. Send never
// blocks.
type StreamSink struct {
	w      StateWriter
	hold   time.Duration
	queue  chan keyboard.InputState
	logger *slog.Logger
}

// NewStreamSink returns a sink with room for queueSize pending states.
func NewStreamSink(w StateWriter, hold time.Duration, queueSize int, logger *slog.Logger) *StreamSink {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize < 2 {
		queueSize = 2
	}
	return &StreamSink{
		w:      w,
		hold:   hold,
		queue:  make(chan keyboard.InputState, queueSize),
		logger: logger,
	}
}

func (s *StreamSink) Send(st keyboard.InputState) error {
	select {
	case s.queue <- st:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run writes queued states until ctx is done or a write fails. A final
// release is written on the way out so no key stays stuck.
func (s *StreamSink) Run(ctx context.Context) error {
	var timer *time.Timer
	if s.hold > 0 {
		timer = time.NewTimer(s.hold)
		timer.Stop()
		defer timer.Stop()
	}
	for {
		select {
		case <-ctx.Done():
			release := keyboard.Release()
			if err := s.w.WriteBinary(&release); err != nil {
				s.logger.Debug("failed to release keys", "error", err)
			}
			return nil
		case st := <-s.queue:
			if err := s.w.WriteBinary(&st); err != nil {
				return fmt.Errorf("write keyboard state: %w", err)
			}
			s.logger.Log(ctx, gklog.LevelTrace, "Keyboard state", "modifiers", st.Modifiers, "keys", st.Keys())
			if timer == nil {
				continue
			}
			timer.Reset(s.hold)
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}
}

// LogSink logs states instead of injecting them.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(st keyboard.InputState) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	names := make([]string, 0, len(st.Keys()))
	for _, k := range st.Keys() {
		names = append(names, keyboard.KeyName[k])
	}
	logger.Info("Keyboard state", "modifiers", fmt.Sprintf("0x%02X", st.Modifiers), "keys", names)
	return nil
}
