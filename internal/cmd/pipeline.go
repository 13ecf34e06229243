package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/engine"
	"github.com/gkospad/gkospad/internal/configpaths"
	"github.com/gkospad/gkospad/internal/source"
	"github.com/gkospad/gkospad/keystate"
	"github.com/gkospad/gkospad/layout"
	"github.com/gkospad/gkospad/profile"
)

// reportQueue is the number of reports buffered between a source and the
// engine loop.
const reportQueue = 64

// ChordConfig holds the debounce timing flags.
type ChordConfig struct {
	FrameInterval time.Duration `help:"Interval between controller reports" default:"4ms" env:"GKOSPAD_CHORD_FRAME_INTERVAL"`
	ChordTime     time.Duration `help:"How long a chord must be held unchanged before it is typed" default:"120ms" env:"GKOSPAD_CHORD_TIME"`
	History       time.Duration `help:"How much report history to keep" default:"3s" env:"GKOSPAD_CHORD_HISTORY"`
}

func (c ChordConfig) config() chord.Config {
	return chord.Config{FrameInterval: c.FrameInterval, ChordTime: c.ChordTime, History: c.History}
}

// MappingConfig selects the profile and layer.
type MappingConfig struct {
	Profile string `help:"Mapping profile (JSON/YAML/TOML); the config directories are searched when empty" env:"GKOSPAD_PROFILE" type:"path"`
	Layer   string `help:"Layout layer to type from" enum:"abc,symbol" default:"abc" env:"GKOSPAD_LAYER"`
}

// load returns the configured profile and the path it came from. Without a
// profile file the built-in profile is used and the path is empty.
func (m MappingConfig) load(logger *slog.Logger) (*profile.Profile, string, error) {
	path := m.Profile
	if path == "" {
		path = configpaths.FindProfile()
	}
	if path == "" {
		logger.Debug("No profile file found, using the built-in profile")
		return profile.Default(), "", nil
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, "", err
	}
	logger.Info("Loaded profile", "path", path)
	return p, path, nil
}

// mapping builds the decoder and resolver for p.
func (m MappingConfig) mapping(p *profile.Profile) (engine.Decoder, engine.Resolver, error) {
	layer, err := layout.ParseLayer(m.Layer)
	if err != nil {
		return nil, nil, err
	}
	dec, err := p.Decoder()
	if err != nil {
		return nil, nil, fmt.Errorf("profile mapping: %w", err)
	}
	return dec, layerResolver{layout: p.Layout, layer: layer}, nil
}

type layerResolver struct {
	layout *layout.Layout
	layer  layout.Layer
}

func (r layerResolver) Resolve(code chord.Code) layout.Output {
	return r.layout.Resolve(r.layer, code)
}

// pipeline is the engine plus what it needs to swap profiles at runtime.
type pipeline struct {
	engine  *engine.Engine
	mapping MappingConfig
	logger  *slog.Logger
}

func newPipeline(p *profile.Profile, m MappingConfig, c ChordConfig, em engine.Emitter, ks keystate.Source, reports engine.ReportLogger, logger *slog.Logger) (*pipeline, error) {
	dec, res, err := m.mapping(p)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(dec, res, em, engine.Options{
		Chord:        c.config(),
		ExternalKeys: p.ExternalKeys,
		KeyState:     ks,
		Logger:       logger,
		Reports:      reports,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Chord engine ready", "window", eng.Detector().Window(), "slots", eng.Detector().Ring().Len(), "layer", m.Layer)
	return &pipeline{engine: eng, mapping: m, logger: logger}, nil
}

// apply swaps in p's mapping and layout. External keys keep their startup
// assignment.
func (pl *pipeline) apply(p *profile.Profile) error {
	dec, res, err := pl.mapping.mapping(p)
	if err != nil {
		return err
	}
	pl.engine.SetMapping(dec, res)
	return nil
}

// pump runs src and feeds its reports through the engine on the calling
// goroutine until src finishes or ctx is done. Profiles arriving on reloads
// are applied between reports. onEvent may be nil.
func (pl *pipeline) pump(ctx context.Context, src source.Source, reloads <-chan *profile.Profile, onEvent func(engine.Event)) error {
	reports := make(chan []byte, reportQueue)
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx, reports) }()

	handle := func(r []byte) {
		if ev, ok := pl.engine.HandleReport(r); ok && onEvent != nil {
			onEvent(ev)
		}
	}
	for {
		select {
		case r := <-reports:
			handle(r)
		case p := <-reloads:
			if err := pl.apply(p); err != nil {
				pl.logger.Warn("failed to apply reloaded profile", "error", err)
			}
		case err := <-errCh:
			for {
				select {
				case r := <-reports:
					handle(r)
				default:
					return err
				}
			}
		}
	}
}
