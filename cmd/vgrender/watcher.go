package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// scriptWatcher calls onChange after a script file stops changing for the
// debounce interval.
type scriptWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func() error
}

// newScriptWatcher watches the directory holding path, so that editors
// replacing the file by rename are noticed.
func newScriptWatcher(path string, debounce time.Duration, onChange func() error) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &scriptWatcher{watcher: watcher, path: path, debounce: debounce, onChange: onChange}, nil
}

// Run handles events until ctx is done. Errors from onChange are logged
// and do not stop the watcher.
func (sw *scriptWatcher) Run(ctx context.Context) error {
	defer sw.watcher.Close()

	absPath, _ := filepath.Abs(sw.path)
	baseName := filepath.Base(sw.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("script changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(sw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := sw.onChange(); err != nil {
				slog.Error("render failed", "script", sw.path, "err", err)
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}
