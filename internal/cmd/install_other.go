//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errInstallUnsupported = errors.New("install is only supported on Linux")

type Install struct{}

func (Install) Run(*slog.Logger) error { return errInstallUnsupported }

type Uninstall struct{}

func (Uninstall) Run(*slog.Logger) error { return errInstallUnsupported }
