package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	gklog "github.com/gkospad/gkospad/internal/log"
)

// Replay feeds reports from a dump written by the report logger, one report
// per line, at Interval apart. A zero Interval replays as fast as the
// receiver accepts.
type Replay struct {
	R        io.Reader
	Interval time.Duration
	Logger   *slog.Logger
}

func (r *Replay) Run(ctx context.Context, out chan<- []byte) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var tick <-chan time.Time
	if r.Interval > 0 {
		t := time.NewTicker(r.Interval)
		defer t.Stop()
		tick = t.C
	}

	sc := bufio.NewScanner(r.R)
	lineNo, count := 0, 0
	for sc.Scan() {
		lineNo++
		report, err := gklog.ParseReportLine(sc.Text())
		if errors.Is(err, gklog.ErrNoReport) {
			continue
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return nil
			}
		}
		if err := send(ctx, out, report); err != nil {
			return nil
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	logger.Debug("Replay finished", "reports", count)
	return nil
}
