package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher detects completed PDF downloads in a directory. It combines
// fsnotify events with interval polling: Chrome writes downloads
// through temporary names, so the event only prompts a re-scan and the
// directory diff is the source of truth.
type Watcher struct {
	dir  string
	poll time.Duration
	log  *zap.Logger
}

// NewWatcher watches dir with the given polling interval.
func NewWatcher(dir string, poll time.Duration, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{dir: dir, poll: poll, log: log}
}

// Snapshot returns the set of *.pdf paths currently in the directory.
func (w *Watcher) Snapshot() (map[string]struct{}, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			out[filepath.Join(w.dir, e.Name())] = struct{}{}
		}
	}
	return out, nil
}

// WaitForNew blocks until a PDF not present in before appears, the
// timeout elapses, or ctx is done. It returns the new file's path.
func (w *Watcher) WaitForNew(ctx context.Context, before map[string]struct{}, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	events := make(chan struct{}, 1)
	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fw.Close()
		if err := fw.Add(w.dir); err != nil {
			w.log.Debug("fsnotify unavailable, polling only", zap.Error(err))
		} else {
			go func() {
				for {
					select {
					case ev, ok := <-fw.Events:
						if !ok {
							return
						}
						if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
							select {
							case events <- struct{}{}:
							default:
							}
						}
					case _, ok := <-fw.Errors:
						if !ok {
							return
						}
					case <-ctx.Done():
						return
					}
				}
			}()
		}
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		if path, ok := w.scanForNew(before); ok {
			return path, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("no download appeared within %s", timeout)
		case <-events:
		case <-ticker.C:
		}
	}
}

func (w *Watcher) scanForNew(before map[string]struct{}) (string, bool) {
	now, err := w.Snapshot()
	if err != nil {
		return "", false
	}
	for path := range now {
		if _, seen := before[path]; !seen {
			return path, true
		}
	}
	return "", false
}
