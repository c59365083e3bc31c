// Package core holds the note store: domain types, actions, the reducer
// and the Store that applies actions and publishes snapshots.
package core

import (
	"fmt"
	"slices"
	"strconv"
)

// State is an immutable snapshot of the store.
// Subscribers must treat every slice in it as read-only.
type State struct {
	Notes  []Note  `json:"notes" yaml:"notes"`
	Trash  []Note  `json:"trash" yaml:"trash"`
	Colors []Color `json:"colors" yaml:"colors"`
	Labels []Label `json:"labels" yaml:"labels"`

	// Version counts applied transitions since the store was seeded.
	Version uint64 `json:"version" yaml:"-"`
}

// Clone returns a deep copy of the snapshot.
func (s State) Clone() State {
	return State{
		Notes:   cloneNotes(s.Notes),
		Trash:   cloneNotes(s.Trash),
		Colors:  slices.Clone(s.Colors),
		Labels:  slices.Clone(s.Labels),
		Version: s.Version,
	}
}

// Validate checks the invariants a seed must hold: note ids unique across
// notes and trash, label ids unique.
func (s State) Validate() error {
	seen := make(map[string]string, len(s.Notes)+len(s.Trash))
	for _, group := range []struct {
		name  string
		notes []Note
	}{{"notes", s.Notes}, {"trash", s.Trash}} {
		for _, n := range group.notes {
			if prev, ok := seen[n.ID]; ok {
				return fmt.Errorf("%w: note %q in %s and %s", ErrDuplicateID, n.ID, prev, group.name)
			}
			seen[n.ID] = group.name
		}
	}

	labels := make(map[string]struct{}, len(s.Labels))
	for _, l := range s.Labels {
		if _, ok := labels[l.ID]; ok {
			return fmt.Errorf("%w: label %q", ErrDuplicateID, l.ID)
		}
		labels[l.ID] = struct{}{}
	}
	return nil
}

// FindNote returns the live note with the given id.
func (s State) FindNote(id string) (Note, bool) {
	return findNote(s.Notes, id)
}

// FindTrashed returns the trashed note with the given id.
func (s State) FindTrashed(id string) (Note, bool) {
	return findNote(s.Trash, id)
}

// FindLabel returns the label with the given id.
func (s State) FindLabel(id string) (Label, bool) {
	i := slices.IndexFunc(s.Labels, func(l Label) bool { return l.ID == id })
	if i < 0 {
		return Label{}, false
	}
	return s.Labels[i], true
}

func (s State) hasNoteID(id string) bool {
	_, live := s.FindNote(id)
	_, trashed := s.FindTrashed(id)
	return live || trashed
}

func findNote(notes []Note, id string) (Note, bool) {
	i := slices.IndexFunc(notes, func(n Note) bool { return n.ID == id })
	if i < 0 {
		return Note{}, false
	}
	return notes[i].Clone(), true
}

func cloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// EventType classifies a change published by the store.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventTrash   EventType = "TRASH"
	EventRestore EventType = "RESTORE"
	EventDelete  EventType = "DELETE"
)

// Event describes one applied action.
type Event struct {
	Type      EventType
	Kind      ActionKind
	ID        string
	Version   uint64
	Timestamp int64 // Unix timestamp
}

// String renders the event on one line.
func (e Event) String() string {
	return string(e.Kind) + " " + e.ID + " v" + strconv.FormatUint(e.Version, 10)
}
