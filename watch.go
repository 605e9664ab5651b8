package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Yeicor/fractal-ui/internal/preset"
	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
)

// reloadTries bounds the attempts at reading a preset that is still being written.
const reloadTries = 5

var reloadInterval = 100 * time.Millisecond

// watch reloads the given preset files on every change until ctx ends. Parent directories are watched instead of
// the files, so editors that save through a rename keep triggering reloads.
func (r *Renderer) watch(ctx context.Context, files []string) error {
	w, err := newFsWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", f, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err = w.Add(dir); err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	logger().Info("watching presets", "files", files)
	go r.watchLoop(ctx, w, targets)
	return nil
}

func (r *Renderer) watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]bool) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if err := r.reload(ctx, ev.Name); err != nil {
				r.report("", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger().Warn("watcher error", "err", err)
		}
	}
}

// reload imports the preset at path, whichever kind it is. A malformed or unreadable file is retried, as it is
// most likely still being written; an unknown version is not.
func (r *Renderer) reload(ctx context.Context, path string) error {
	r.importing.Lock()
	defer r.importing.Unlock()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = reloadInterval
	kind, err := backoff.Retry(ctx, func() (preset.Kind, error) {
		bs, err := os.ReadFile(path)
		if err != nil {
			return preset.KindScene, err
		}
		kind, err := preset.Import(r.store, bs)
		if errors.Is(err, preset.ErrUnrecognizedVersion) {
			return kind, backoff.Permanent(err)
		}
		return kind, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(reloadTries))
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	logger().Info("preset reloaded", "path", path, "kind", kind)
	r.setStatus(fmt.Sprintf("Reloaded %s preset from %s", kind, filepath.Base(path)))
	return nil
}
