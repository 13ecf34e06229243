// Package source delivers raw DualShock 4 input reports to the engine.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/gkospad/gkospad/device/dualshock4"
)

var (
	// ErrShortReport marks reports shorter than a full USB input report.
	// They still reach the engine, which decodes what it can.
	ErrShortReport = errors.New("short input report")
	// ErrReportID marks reports that do not carry the USB input report ID.
	ErrReportID = errors.New("unexpected report id")
)

// Source produces reports until ctx is done or the transport fails. Every
// report sent on out is a fresh slice owned by the receiver.
type Source interface {
	Run(ctx context.Context, out chan<- []byte) error
}

// Check reports whether report has the size and ID of a USB input report.
func Check(report []byte) error {
	if len(report) < dualshock4.InputReportSize {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortReport, len(report), dualshock4.InputReportSize)
	}
	if report[dualshock4.OffsetReportID] != dualshock4.ReportIDInput {
		return fmt.Errorf("%w 0x%02X", ErrReportID, report[dualshock4.OffsetReportID])
	}
	return nil
}

func send(ctx context.Context, out chan<- []byte, report []byte) error {
	select {
	case out <- report:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
