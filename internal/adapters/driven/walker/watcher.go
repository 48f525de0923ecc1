package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

// debounceWindow coalesces bursts of filesystem events (editors write
// several events per save) into a single rebuild trigger.
const debounceWindow = 500 * time.Millisecond

// Watcher signals when any XML file under the roots changes.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// NewWatcher creates a watcher over every directory under the roots.
// New subdirectories created while watching are picked up as their
// create events arrive.
func NewWatcher(roots []domain.SourceRoot) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsw: fsw}
	for _, root := range roots {
		_ = filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root.Path {
					return filepath.SkipDir
				}
				if addErr := fsw.Add(path); addErr != nil {
					logger.Debug("watch add failed for %s: %v", path, addErr)
				}
			}
			return nil
		})
	}

	return w, nil
}

// Changes delivers one signal per debounced burst of XML changes.
// The channel closes when ctx is cancelled.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				// Track new directories so nested changes are seen.
				if ev.Op&fsnotify.Create != 0 {
					if isDir(ev.Name) {
						_ = w.fsw.Add(ev.Name)
						continue
					}
				}
				if !strings.EqualFold(filepath.Ext(ev.Name), ".xml") {
					continue
				}
				logger.Debug("change: %s %s", ev.Op, ev.Name)
				if timer == nil {
					timer = time.NewTimer(debounceWindow)
				} else {
					timer.Reset(debounceWindow)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return out
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
