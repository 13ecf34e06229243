package profile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay coalesces the bursts of events editors produce when
// saving a file.
const DefaultReloadDelay = 100 * time.Millisecond

// Watcher reloads a profile file when it changes.
type Watcher struct {
	Path   string
	Delay  time.Duration
	Logger *slog.Logger
}

// Run watches the profile's directory and sends every successfully
// reloaded profile on out. Profiles that fail to load are logged and
// skipped; the previous profile stays in effect. Run returns when ctx is
// done.
func (w *Watcher) Run(ctx context.Context, out chan<- *Profile) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := w.Delay
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	logger.Debug("Watching profile", "path", w.Path)

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	name := filepath.Base(w.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(delay)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("profile watcher error", "error", err)
		case <-timer.C:
			p, err := Load(w.Path)
			if err != nil {
				logger.Warn("failed to reload profile; keeping the current one", "error", err)
				continue
			}
			select {
			case out <- p:
				logger.Info("Reloaded profile", "path", w.Path)
			case <-ctx.Done():
				return nil
			}
		}
	}
}
