package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gkospad/gkospad/engine"
	"github.com/gkospad/gkospad/internal/source"
	"github.com/gkospad/gkospad/layout"
	"github.com/gkospad/gkospad/synth"

	gklog "github.com/gkospad/gkospad/internal/log"
)

// Replay runs a report dump through the engine and prints every chord it
// recognizes. External keys are not part of a dump and read as released.
type Replay struct {
	File     string        `arg:"" optional:"" help:"Report dump written with --log.report-file; - or empty reads stdin" type:"path"`
	Interval time.Duration `help:"Delay between reports; 0 replays as fast as possible" default:"0s" env:"GKOSPAD_REPLAY_INTERVAL"`
	Type     bool          `help:"Log the keyboard states each chord would type" default:"false" env:"GKOSPAD_REPLAY_TYPE"`
	Chord    ChordConfig   `embed:"" prefix:"chord."`
	Mapping  MappingConfig `embed:""`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger, reports *gklog.ReportLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, reports)
}

func (r *Replay) Start(ctx context.Context, logger *slog.Logger, reports *gklog.ReportLogger) error {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}
	if r.File != "" && r.File != "-" {
		f, err := os.Open(r.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	out := r.Stdout
	if out == nil {
		out = os.Stdout
	}

	prof, _, err := r.Mapping.load(logger)
	if err != nil {
		return err
	}
	var em engine.Emitter = discard{}
	if r.Type {
		em = synth.New(synth.LogSink{Logger: logger}, logger)
	}
	pl, err := newPipeline(prof, r.Mapping, r.Chord, em, nil, reports, logger)
	if err != nil {
		return err
	}

	var chords, bound int
	err = pl.pump(ctx, &source.Replay{R: in, Interval: r.Interval, Logger: logger}, nil, func(ev engine.Event) {
		chords++
		if !ev.Output.IsUnbound() {
			bound++
		}
		fmt.Fprintf(out, "%s\t%s\n", ev.Code, ev.Output)
	})
	if err != nil {
		return err
	}
	logger.Info("Replay done", "chords", chords, "bound", bound)
	return nil
}

type discard struct{}

func (discard) Emit(layout.Output) error { return nil }
