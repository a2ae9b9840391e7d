package installed

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/hamidzr/stylefind/internal/debounce"
)

const reloadDelay = 50 * time.Millisecond

// Watch reloads the registry whenever another process rewrites its file. It
// blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	// the file is replaced by rename on save, so watch the directory.
	path := filepath.Clean(r.file.Path())
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(path))
	}

	reloads := debounce.New[string](reloadDelay)
	defer reloads.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			reloads.Call(path, func() {
				if err := r.Reload(); err != nil {
					r.log.WithError(err).Warn("reloading installed styles failed")
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.WithError(err).Warn("watcher error")
		}
	}
}
