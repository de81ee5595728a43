package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long an input must stay quiet before it is re-run.
const settle = 200 * time.Millisecond

// watchInputs calls run with the original input path each time one of
// inputs is written or replaced, until ctx is done. Parent directories are
// watched so editors that save by rename are seen. Errors from run are
// logged and do not stop the loop.
func watchInputs(ctx context.Context, logger *slog.Logger, inputs []string, run func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(inputs))
	dirs := map[string]struct{}{}
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		tracked[abs] = in
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	pending := map[string]struct{}{}
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			in, ok := tracked[filepath.Clean(event.Name)]
			if !ok || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("input changed", "path", in, "op", event.Op.String())
			pending[in] = struct{}{}
			timer = time.After(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer:
			for in := range pending {
				if err := run(in); err != nil {
					logger.Error("re-run failed", "path", in, "error", err)
				}
			}
			clear(pending)
			timer = nil
		}
	}
}
