package profile

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads profiles when their documents change on disk, so a
// profile edit takes effect without restarting the host.
type Watcher struct {
	registry *Registry
	logger   *slog.Logger
	fw       *fsnotify.Watcher

	// onReload, when set, is invoked after a profile has been reloaded.
	onReload func(languageID string)

	closeOnce sync.Once
	done      chan struct{}
}

// Watch starts watching the registry's profile directory. The callback may
// be nil. The caller must Close the watcher when done.
func Watch(r *Registry, onReload func(languageID string)) (*Watcher, error) {
	if r.dir == "" {
		return nil, fmt.Errorf("registry has no profile directory to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(r.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", r.dir, err)
	}

	w := &Watcher{
		registry: r,
		logger:   r.logger,
		fw:       fw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			id := strings.TrimSuffix(name, ".json")
			if _, err := w.registry.Reload(id); err != nil {
				w.logger.Warn("profile reload", "language", id, "error", err)
			} else {
				w.logger.Info("profile reloaded", "language", id)
			}
			if w.onReload != nil {
				w.onReload(id)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("profile watcher", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}
