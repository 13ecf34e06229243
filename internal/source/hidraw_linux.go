//go:build linux

package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gkospad/gkospad/device/dualshock4"
	"golang.org/x/sys/unix"
)

// Hidraw reads reports from a Linux hidraw node such as /dev/hidraw0.
type Hidraw struct {
	Path string
	// Vendor and Product, when non-zero, must match the device.
	Vendor  uint16
	Product uint16
	Logger  *slog.Logger
}

// DeviceInfo identifies a hidraw device.
type DeviceInfo struct {
	Name    string
	Bus     uint32
	Vendor  uint16
	Product uint16
}

func (h *Hidraw) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Hidraw) Run(ctx context.Context, out chan<- []byte) error {
	f, err := os.Open(h.Path)
	if err != nil {
		return fmt.Errorf("open hidraw: %w", err)
	}
	defer f.Close()

	info, err := rawInfo(f)
	if err != nil {
		return fmt.Errorf("query hidraw: %w", err)
	}
	if (h.Vendor != 0 && info.Vendor != h.Vendor) || (h.Product != 0 && info.Product != h.Product) {
		return fmt.Errorf("%s is %04X:%04X, want %04X:%04X", h.Path, info.Vendor, info.Product, h.Vendor, h.Product)
	}

	stop := context.AfterFunc(ctx, func() { _ = f.Close() })
	defer stop()

	h.logger().Info("Reading controller reports", "device", h.Path, "name", info.Name,
		"vid", fmt.Sprintf("%04X", info.Vendor), "pid", fmt.Sprintf("%04X", info.Product))

	warned := false
	for {
		buf := make([]byte, dualshock4.InputReportSize)
		n, err := f.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read hidraw: %w", err)
		}
		report := buf[:n]
		if cerr := Check(report); cerr != nil && !warned {
			h.logger().Warn("Unexpected controller report", "error", cerr)
			warned = true
		}
		if err := send(ctx, out, report); err != nil {
			return nil
		}
	}
}

func rawInfo(f *os.File) (DeviceInfo, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return DeviceInfo{}, err
	}
	var info DeviceInfo
	var ioctlErr error
	if err := rc.Control(func(fd uintptr) {
		ri, err := unix.IoctlHIDGetRawInfo(int(fd))
		if err != nil {
			ioctlErr = err
			return
		}
		info.Bus = ri.Bustype
		info.Vendor = uint16(ri.Vendor)
		info.Product = uint16(ri.Product)
		if name, err := unix.IoctlHIDGetRawName(int(fd)); err == nil {
			info.Name = name
		}
	}); err != nil {
		return DeviceInfo{}, err
	}
	return info, ioctlErr
}
