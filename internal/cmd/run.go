package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gkospad/gkospad/internal/source"
	"github.com/gkospad/gkospad/internal/viiper"
	"github.com/gkospad/gkospad/keystate"
	"github.com/gkospad/gkospad/profile"
	"github.com/gkospad/gkospad/synth"

	gklog "github.com/gkospad/gkospad/internal/log"
)

// ViiperConfig addresses the VIIPER server hosting the virtual keyboard.
type ViiperConfig struct {
	Addr      string        `help:"VIIPER API server address" default:"localhost:3242" env:"GKOSPAD_VIIPER_ADDR"`
	Password  string        `help:"VIIPER API password; empty for an unauthenticated server" env:"GKOSPAD_VIIPER_PASSWORD"`
	Bus       uint32        `help:"Bus to attach the keyboard to; 0 picks the first bus or creates one" default:"0" env:"GKOSPAD_VIIPER_BUS"`
	Timeout   time.Duration `help:"Dial, read and write timeout" default:"5s" env:"GKOSPAD_VIIPER_TIMEOUT"`
	Hold      time.Duration `help:"Minimum time each keyboard state is held" default:"16ms" env:"GKOSPAD_VIIPER_HOLD"`
	QueueSize int           `help:"Keyboard states buffered ahead of the stream" default:"64" env:"GKOSPAD_VIIPER_QUEUE_SIZE"`
}

func (v ViiperConfig) client() (*viiper.Client, error) {
	return viiper.NewWithConfig(v.Addr, &viiper.Config{
		DialTimeout:  v.Timeout,
		ReadTimeout:  v.Timeout,
		WriteTimeout: v.Timeout,
		Password:     v.Password,
	})
}

type Run struct {
	Device       string        `help:"hidraw node of the controller" default:"/dev/hidraw0" env:"GKOSPAD_DEVICE"`
	Vid          string        `help:"Expected USB vendor ID (hex); empty skips the check" default:"054c" env:"GKOSPAD_VID"`
	Pid          string        `help:"Expected USB product ID (hex); empty skips the check" default:"05c4" env:"GKOSPAD_PID"`
	KeyDevice    string        `help:"evdev keyboard supplying the external chord keys, e.g. /dev/input/event3" env:"GKOSPAD_KEY_DEVICE"`
	GrabKeys     bool          `help:"Grab the key device so bound keys do not reach other applications" default:"false" env:"GKOSPAD_GRAB_KEYS"`
	KeyBindings  []string      `help:"Host key code to chord key bindings (<code>=<key>)" default:"65=3,66=6" env:"GKOSPAD_KEY_BINDINGS"`
	WatchProfile bool          `help:"Reload the profile file when it changes" default:"true" env:"GKOSPAD_WATCH_PROFILE" negatable:""`
	DryRun       bool          `help:"Log keyboard output instead of sending it to VIIPER" default:"false" env:"GKOSPAD_DRY_RUN"`
	Chord        ChordConfig   `embed:"" prefix:"chord."`
	Mapping      MappingConfig `embed:""`
	Viiper       ViiperConfig  `embed:"" prefix:"viiper."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, reports *gklog.ReportLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, reports)
}

// Start runs until ctx is done or the controller goes away.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, reports *gklog.ReportLogger) error {
	vid, err := parseUSBID(r.Vid)
	if err != nil {
		return fmt.Errorf("vid: %w", err)
	}
	pid, err := parseUSBID(r.Pid)
	if err != nil {
		return fmt.Errorf("pid: %w", err)
	}

	prof, profPath, err := r.Mapping.load(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sink, detach, err := r.sink(ctx, cancel, logger)
	if err != nil {
		return err
	}
	defer func() {
		cancel(nil)
		detach()
	}()

	keys, err := r.keyState(ctx, logger)
	if err != nil {
		return err
	}

	pl, err := newPipeline(prof, r.Mapping, r.Chord, synth.New(sink, logger), keys, reports, logger)
	if err != nil {
		return err
	}

	var reloads chan *profile.Profile
	if r.WatchProfile && profPath != "" {
		reloads = make(chan *profile.Profile)
		w := &profile.Watcher{Path: profPath, Logger: logger}
		go func() {
			if err := w.Run(ctx, reloads); err != nil {
				logger.Warn("profile watcher stopped", "error", err)
			}
		}()
	}

	src := &source.Hidraw{Path: r.Device, Vendor: vid, Product: pid, Logger: logger}
	err = pl.pump(ctx, src, reloads, nil)
	if cause := context.Cause(ctx); cause != nil {
		if errors.Is(cause, context.Canceled) {
			logger.Info("Shutting down")
			return nil
		}
		return cause
	}
	return err
}

// sink attaches the virtual keyboard, or a log sink for dry runs. A failing
// stream cancels ctx through stop. The returned func waits for the stream
// to finish once ctx is done and detaches the keyboard.
func (r *Run) sink(ctx context.Context, stop context.CancelCauseFunc, logger *slog.Logger) (synth.Sink, func(), error) {
	if r.DryRun {
		return synth.LogSink{Logger: logger}, func() {}, nil
	}
	client, err := r.Viiper.client()
	if err != nil {
		return nil, nil, err
	}
	kb, err := client.AttachKeyboard(ctx, r.Viiper.Bus, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("attach virtual keyboard at %s: %w", r.Viiper.Addr, err)
	}
	logger.Info("Virtual keyboard attached", "bus", kb.BusID, "device", kb.DevID)

	sink := synth.NewStreamSink(kb, r.Viiper.Hold, r.Viiper.QueueSize, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sink.Run(ctx); err != nil {
			stop(err)
		}
	}()

	return sink, func() {
		<-done
		dctx, cancel := context.WithTimeout(context.Background(), r.Viiper.Timeout)
		defer cancel()
		if err := kb.Detach(dctx); err != nil {
			logger.Warn("failed to remove virtual keyboard", "error", err)
		}
	}, nil
}

// keyState starts the evdev hook when a key device is configured. Without
// one, external keys always read as released.
func (r *Run) keyState(ctx context.Context, logger *slog.Logger) (keystate.Source, error) {
	if r.KeyDevice == "" {
		return nil, nil
	}
	bindings := make([]keystate.Binding, 0, len(r.KeyBindings))
	for _, s := range r.KeyBindings {
		b, err := keystate.ParseBinding(s)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	flags := keystate.NewFlags()
	hook := keystate.NewEvdevHook(r.KeyDevice, r.GrabKeys, keystate.NewHook(flags, bindings), logger)
	go func() {
		if err := hook.Run(ctx); err != nil {
			logger.Warn("key hook stopped; external keys read as released", "error", err)
		}
	}()
	return flags, nil
}

func parseUSBID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, errors.New("expected a 16-bit hex value")
	}
	return uint16(v), nil
}
