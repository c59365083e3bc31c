package seed

import (
	"time"

	"github.com/aretw0/introspection"
)

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Path       string        `json:"path"`
	Directory  bool          `json:"directory"`
	Active     bool          `json:"active"`
	Debounce   time.Duration `json:"debounce"`
	Changes    int           `json:"changes"`
	LastChange *time.Time    `json:"last_change,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	return WatcherState{
		Path:       w.path,
		Directory:  w.isDir,
		Active:     w.active,
		Debounce:   w.delay,
		Changes:    w.changes,
		LastChange: w.lastChange,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)
