//go:build linux

package keystate

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	keyValueUp     = 0
	keyValueDown   = 1
	keyValueRepeat = 2

	// struct input_event with a 64-bit timeval.
	inputEventSize = 24
)

// EVIOCGRAB = _IOW('E', 0x90, int)
const eviocgrab = 1<<30 | 4<<16 | 'E'<<8 | 0x90

// EvdevHook feeds key events from a Linux input device into a Hook.
type EvdevHook struct {
	path   string
	grab   bool
	hook   *Hook
	logger *slog.Logger
}

// NewEvdevHook watches the event device at path. With grab set the device
// is opened exclusively, so its keys no longer reach other applications.
func NewEvdevHook(path string, grab bool, hook *Hook, logger *slog.Logger) *EvdevHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvdevHook{path: path, grab: grab, hook: hook, logger: logger}
}

// Run reads events until ctx is done or the device fails. The hook's flags
// are unavailable before Run starts reading and after it returns.
func (e *EvdevHook) Run(ctx context.Context) error {
	flags := e.hook.Flags()
	flags.SetAvailable(false)

	f, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("open key device: %w", err)
	}
	defer f.Close()

	if e.grab {
		if err := grabDevice(f); err != nil {
			return fmt.Errorf("grab key device: %w", err)
		}
	}

	stop := context.AfterFunc(ctx, func() { _ = f.Close() })
	defer stop()

	flags.SetAvailable(true)
	defer flags.SetAvailable(false)
	e.logger.Info("Key hook installed", "device", e.path, "keys", e.hook.Keys(), "grab", e.grab)

	err = readKeyEvents(f, e.hook.HandleKey)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// grabDevice issues EVIOCGRAB without switching f to blocking mode, so a
// concurrent Close still interrupts a pending read.
func grabDevice(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var ioctlErr error
	if err := rc.Control(func(fd uintptr) {
		ioctlErr = unix.IoctlSetInt(int(fd), eviocgrab, 1)
	}); err != nil {
		return err
	}
	return ioctlErr
}

func readKeyEvents(r io.Reader, handle func(code uint16, down bool) bool) error {
	var ev [inputEventSize]byte
	for {
		if _, err := io.ReadFull(r, ev[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read key event: %w", err)
		}
		typ := binary.LittleEndian.Uint16(ev[16:18])
		if typ != evKey {
			continue
		}
		code := binary.LittleEndian.Uint16(ev[18:20])
		switch int32(binary.LittleEndian.Uint32(ev[20:24])) {
		case keyValueDown, keyValueRepeat:
			handle(code, true)
		case keyValueUp:
			handle(code, false)
		}
	}
}
