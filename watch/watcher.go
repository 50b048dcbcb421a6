package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reconciles a local document file whenever the filesystem reports
// it written. The parent directory is watched rather than the file itself,
// since editors commonly replace files on save.
type Watcher struct {
	session
}

// NewWatcher returns a watcher for the given local file path.
func NewWatcher(path string, opts ...Option) *Watcher {
	return &Watcher{session: newSession(path, opts...)}
}

// Run watches until ctx is canceled, syncing once immediately and then on
// every write or create event for the file. Sync errors are reported
// through the error handler and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create file watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	target := filepath.Clean(w.location)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: failed to watch %s: %w", filepath.Dir(target), err)
	}

	_ = w.sync(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			_ = w.sync(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}
