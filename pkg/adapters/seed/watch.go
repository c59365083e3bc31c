package seed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reports changes to a seed fixture on disk. Bursts of filesystem
// events are coalesced into a single signal.
type Watcher struct {
	path   string
	delay  time.Duration
	logger *slog.Logger

	mu         sync.Mutex
	active     bool
	isDir      bool
	changes    int
	lastChange *time.Time
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatchLogger sets the logger of the watcher.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the fixture at path.
func NewWatcher(path string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:   filepath.Clean(path),
		delay:  DefaultDebounce,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching and returns a channel that receives the time of
// each settled change. The channel is closed when ctx is done.
//
// A single file is watched through its parent directory since editors
// usually replace files by rename.
func (w *Watcher) Watch(ctx context.Context) (<-chan time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(w.path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if info.IsDir() {
		err = addRecursive(fw, w.path)
	} else {
		err = fw.Add(filepath.Dir(w.path))
	}
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.active = true
	w.isDir = info.IsDir()
	w.mu.Unlock()

	out := make(chan time.Time, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer w.setActive(false)
		defer fw.Close()
		return w.loop(ctx, fw, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("seed watcher stopped", "path", w.path, "error", err)
	}))

	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan time.Time) error {
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
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if w.isDir && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(fw, event.Name)
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("seed event", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case at := <-fire:
			fire = nil
			w.record(at)
			// Pending signals are coalesced.
			select {
			case out <- at:
			default:
			}

		case err, ok := <-fw.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// relevant reports whether event touches the fixture.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) {
		return false
	}

	if !w.isDir {
		return filepath.Clean(event.Name) == w.path
	}

	switch {
	case name == labelsFile, name == colorsFile:
		return true
	case strings.HasSuffix(name, ".md"):
		return true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A removed directory takes its notes with it.
		return filepath.Ext(name) == ""
	}
	return false
}

func (w *Watcher) record(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changes++
	w.lastChange = &at
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}
