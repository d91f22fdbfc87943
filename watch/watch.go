// Package watch re-syncs the current session whenever its log changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Watcher.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// Watcher calls Sync after the session logs in Dir stop changing for the
// debounce period. Sync is always called from the Run goroutine, so calls
// never overlap.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Sync     func(ctx context.Context) error
	Logger   *log.Logger
}

// Run watches until ctx is cancelled. A failing Sync is logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.logger().Debug("watching", "dir", w.Dir, "debounce", w.debounce())

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isLogChange(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce())
			} else {
				timer.Reset(w.debounce())
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			if err := w.Sync(ctx); err != nil {
				w.logger().Error("sync failed", "err", err)
			}
		}
	}
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce > 0 {
		return w.Debounce
	}
	return DefaultDebounce
}

func (w *Watcher) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}

// isLogChange reports whether event touches a main session log.
func isLogChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, ".jsonl") && !strings.HasPrefix(name, "agent-")
}
