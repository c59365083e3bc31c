package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Version       uint64 `json:"version"`
	Notes         int    `json:"notes"`
	Trash         int    `json:"trash"`
	Labels        int    `json:"labels"`
	Colors        int    `json:"colors"`
	Subscribers   int64  `json:"subscribers"`
	Watchers      int    `json:"watchers"`
	DroppedEvents uint64 `json:"dropped_events"`
	Rejected      uint64 `json:"rejected_actions"`
	EventBuffer   int    `json:"event_buffer_size"`
	ReadOnly      bool   `json:"read_only"`
	LabelCascade  bool   `json:"label_cascade"`
}

// Inspect returns counters describing the store.
func (s *Store) Inspect() StoreState {
	st := s.State()
	watchers, dropped := s.events.stats()

	return StoreState{
		Version:       st.Version,
		Notes:         len(st.Notes),
		Trash:         len(st.Trash),
		Labels:        len(st.Labels),
		Colors:        len(st.Colors),
		Subscribers:   s.subscribers.Load(),
		Watchers:      watchers,
		DroppedEvents: dropped,
		Rejected:      s.rejected.Load(),
		EventBuffer:   s.events.buffer,
		ReadOnly:      s.config.ReadOnly,
		LabelCascade:  s.config.LabelCascade,
	}
}

// Introspect returns a view of the store for the introspection package.
// Store.State already serves snapshots, so the view lives on its own type.
func (s *Store) Introspect() *StoreView {
	return &StoreView{store: s}
}

// StoreView adapts a Store to introspection.Introspectable.
type StoreView struct {
	store *Store
}

// State implements introspection.Introspectable.
func (v *StoreView) State() any {
	return v.store.Inspect()
}

// ComponentType implements introspection.Component.
func (v *StoreView) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*StoreView)(nil)
var _ introspection.Component = (*StoreView)(nil)
