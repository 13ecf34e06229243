//go:build !linux

package keystate

import (
	"context"
	"errors"
	"log/slog"
)

// EvdevHook is only functional on Linux.
type EvdevHook struct{ hook *Hook }

func NewEvdevHook(_ string, _ bool, hook *Hook, _ *slog.Logger) *EvdevHook {
	return &EvdevHook{hook: hook}
}

func (e *EvdevHook) Run(context.Context) error {
	e.hook.Flags().SetAvailable(false)
	return errors.New("evdev key hook is only supported on Linux")
}
