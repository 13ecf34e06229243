//go:build !linux

package source

import (
	"context"
	"errors"
	"log/slog"
)

// Hidraw reads reports from a Linux hidraw node.
type Hidraw struct {
	Path    string
	Vendor  uint16
	Product uint16
	Logger  *slog.Logger
}

func (h *Hidraw) Run(context.Context, chan<- []byte) error {
	return errors.New("hidraw is only supported on Linux")
}
