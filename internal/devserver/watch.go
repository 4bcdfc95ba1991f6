package devserver

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

// AssetVersionHeader counts static bundle changes since the server started,
// so a reloading page can tell a rebuilt bundle from a cached one.
const AssetVersionHeader = "X-Asset-Version"

// AssetWatcher follows changes under the static directory.
type AssetWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	version atomic.Int64
}

// WatchAssets watches dir and every directory below it.
func WatchAssets(dir string, logger *slog.Logger) (*AssetWatcher, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", deckerrors.ErrStaticDirNotFound, dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	aw := &AssetWatcher{dir: dir, watcher: w, logger: logger}
	if err := aw.addTree(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return aw, nil
}

func (a *AssetWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return a.watcher.Add(path)
		}
		return nil
	})
}

// Run consumes change events until ctx is done or the watcher is closed.
func (a *AssetWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-a.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := a.addTree(event.Name); err != nil {
						a.logger.Warn("cannot watch directory", "path", event.Name, "error", err)
					}
				}
			}
			v := a.version.Add(1)
			rel, err := filepath.Rel(a.dir, event.Name)
			if err != nil {
				rel = event.Name
			}
			a.logger.Info("asset changed", "path", rel, "op", event.Op.String(), "version", v)

		case err, ok := <-a.watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("asset watcher error", "error", err)
		}
	}
}

// Version returns the number of changes seen.
func (a *AssetWatcher) Version() int64 {
	return a.version.Load()
}

// Close stops watching.
func (a *AssetWatcher) Close() error {
	return a.watcher.Close()
}

func (a *AssetWatcher) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(AssetVersionHeader, strconv.FormatInt(a.Version(), 10))
		next.ServeHTTP(w, r)
	})
}
