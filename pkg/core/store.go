package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imkira/go-observer"
)

// maxIDAttempts bounds how often AddNote and AddLabel draw a new id after
// the generator returned one already in use.
const maxIDAttempts = 3

// Config holds the configuration for a Store.
type Config struct {
	Logger       *slog.Logger
	IDs          IDGenerator
	Clock        func() time.Time
	EventBuffer  int  // Zero means default (100).
	ReadOnly     bool // Every mutation fails with ErrReadOnly.
	LabelCascade bool // DeleteLabel strips the label id from notes.
}

// Store owns the note collections and applies one action at a time.
// Every applied action produces a new snapshot that is published to
// subscribers before the next dispatch starts.
type Store struct {
	mu     sync.RWMutex
	state  State
	prop   observer.Property
	events *broker
	config Config

	subscribers atomic.Int64
	rejected    atomic.Uint64
}

// NewStore creates a store seeded with the given collections.
// The seed is copied; the caller keeps ownership of its slices.
func NewStore(seed State, config Config) (*Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.IDs == nil {
		config.IDs = UUIDGenerator{}
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	state := seed.Clone()
	state.Version = 0

	return &Store{
		state:  state,
		prop:   observer.NewProperty(state),
		events: newBroker(config.EventBuffer, config.Logger),
		config: config,
	}, nil
}

// State returns a copy of the current snapshot. The caller owns it.
func (s *Store) State() State {
	return s.snapshot().Clone()
}

// snapshot returns the current snapshot without copying. It must be
// treated as read-only.
func (s *Store) snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Notes returns the live notes in insertion order.
func (s *Store) Notes() []Note { return cloneNotes(s.snapshot().Notes) }

// Trash returns the trashed notes in the order they were trashed.
func (s *Store) Trash() []Note { return cloneNotes(s.snapshot().Trash) }

// Colors returns the static color palette.
func (s *Store) Colors() []Color { return slices.Clone(s.snapshot().Colors) }

// Labels returns the labels in insertion order.
func (s *Store) Labels() []Label { return slices.Clone(s.snapshot().Labels) }

// Note returns the live note with the given id.
func (s *Store) Note(id string) (Note, error) {
	n, ok := s.snapshot().FindNote(id)
	if !ok {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrNoteNotFound)
	}
	return n, nil
}

// Label returns the label with the given id.
func (s *Store) Label(id string) (Label, error) {
	l, ok := s.snapshot().FindLabel(id)
	if !ok {
		return Label{}, fmt.Errorf("label %q: %w", id, ErrLabelNotFound)
	}
	return l, nil
}

// NoteLabels resolves the label references of n. References to deleted
// labels are skipped.
func (s *Store) NoteLabels(n Note) []Label {
	st := s.snapshot()
	out := make([]Label, 0, len(n.Labels))
	for _, id := range n.Labels {
		if l, ok := st.FindLabel(id); ok {
			out = append(out, l)
		}
	}
	return out
}

// AddNote creates a note with a fresh identifier and appends it to notes.
func (s *Store) AddNote(ctx context.Context, draft NoteDraft) (Note, error) {
	next, err := s.dispatchNew(ctx, Action{Kind: ActionAddNote, Draft: draft})
	if err != nil {
		return Note{}, err
	}
	return next.Notes[len(next.Notes)-1].Clone(), nil
}

// EditNote replaces the fields present in patch on the note with id.
func (s *Store) EditNote(ctx context.Context, id string, patch NotePatch) (Note, error) {
	_, next, err := s.dispatch(ctx, Action{Kind: ActionEditNote, ID: id, Patch: patch})
	if err != nil {
		return Note{}, err
	}
	n, _ := next.FindNote(id)
	return n, nil
}

// TrashNote moves the note with id from notes to the end of trash.
func (s *Store) TrashNote(ctx context.Context, id string) (Note, error) {
	return s.trash(ctx, ActionTrashNote, id)
}

// DeleteNote is TrashNote under its historical name: the note is moved to
// trash, not destroyed. PurgeNote destroys trashed notes.
func (s *Store) DeleteNote(ctx context.Context, id string) (Note, error) {
	return s.trash(ctx, ActionDeleteNote, id)
}

func (s *Store) trash(ctx context.Context, kind ActionKind, id string) (Note, error) {
	_, next, err := s.dispatch(ctx, Action{Kind: kind, ID: id})
	if err != nil {
		return Note{}, err
	}
	return next.Trash[len(next.Trash)-1].Clone(), nil
}

// RestoreNote removes the trash entry with n.ID and appends n, as given by
// the caller, to notes.
func (s *Store) RestoreNote(ctx context.Context, n Note) (Note, error) {
	_, next, err := s.dispatch(ctx, Action{Kind: ActionRestoreNote, Note: n})
	if err != nil {
		return Note{}, err
	}
	return next.Notes[len(next.Notes)-1].Clone(), nil
}

// RestoreNoteByID restores the trashed copy of the note with id.
func (s *Store) RestoreNoteByID(ctx context.Context, id string) (Note, error) {
	n, ok := s.snapshot().FindTrashed(id)
	if !ok {
		return Note{}, fmt.Errorf("restore note %q: %w", id, ErrNoteNotFound)
	}
	return s.RestoreNote(ctx, n)
}

// PurgeNote permanently removes the note with id from trash.
func (s *Store) PurgeNote(ctx context.Context, id string) (Note, error) {
	prev, _, err := s.dispatch(ctx, Action{Kind: ActionPurgeNote, ID: id})
	if err != nil {
		return Note{}, err
	}
	n, _ := prev.FindTrashed(id)
	return n, nil
}

// AddLabel creates a label with a fresh identifier.
func (s *Store) AddLabel(ctx context.Context, text string) (Label, error) {
	next, err := s.dispatchNew(ctx, Action{Kind: ActionAddLabel, Text: text})
	if err != nil {
		return Label{}, err
	}
	return next.Labels[len(next.Labels)-1], nil
}

// UpdateLabel replaces the text of the label with id.
func (s *Store) UpdateLabel(ctx context.Context, id, text string) (Label, error) {
	_, next, err := s.dispatch(ctx, Action{Kind: ActionUpdateLabel, ID: id, Text: text})
	if err != nil {
		return Label{}, err
	}
	l, _ := next.FindLabel(id)
	return l, nil
}

// DeleteLabel removes the label with id. Notes keep referencing it unless
// the store was configured with LabelCascade.
func (s *Store) DeleteLabel(ctx context.Context, id string) (Label, error) {
	prev, _, err := s.dispatch(ctx, Action{Kind: ActionDeleteLabel, ID: id})
	if err != nil {
		return Label{}, err
	}
	l, _ := prev.FindLabel(id)
	return l, nil
}

// dispatchNew assigns a generated id to a creating action, drawing again
// if the generator hands out an id that is already taken.
func (s *Store) dispatchNew(ctx context.Context, a Action) (State, error) {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		a.ID = s.config.IDs.NewID()

		var next State
		_, next, err = s.dispatch(ctx, a)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return State{}, err
		}
		s.config.Logger.Warn("generated id already in use, retrying", "kind", a.Kind, "id", a.ID, "attempt", attempt+1)
	}
	return State{}, err
}

// Dispatch applies a to the current snapshot and publishes the result.
// It returns the new snapshot. On error the snapshot is left untouched and
// nothing is published. Unknown kinds leave the state unchanged.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	_, next, err := s.dispatch(ctx, a)
	if err != nil {
		return State{}, err
	}
	return next.Clone(), nil
}

// dispatch applies a under the write lock and returns the snapshots
// before and after the transition. Both are shared and read-only.
func (s *Store) dispatch(ctx context.Context, a Action) (prev, next State, err error) {
	if err := ctx.Err(); err != nil {
		return State{}, State{}, err
	}
	if s.config.ReadOnly && a.Kind.Known() {
		s.rejected.Add(1)
		return State{}, State{}, fmt.Errorf("%s: %w", a.Kind, ErrReadOnly)
	}
	if a.Kind == ActionDeleteLabel {
		a.Cascade = a.Cascade || s.config.LabelCascade
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	next, err = Reduce(prev, a)
	if err != nil {
		s.rejected.Add(1)
		s.config.Logger.Debug("action rejected", "kind", a.Kind, "id", a.TargetID(), "error", err)
		return State{}, State{}, err
	}
	if next.Version == prev.Version {
		s.config.Logger.Debug("action ignored", "kind", a.Kind)
		return prev, next, nil
	}

	s.state = next
	s.prop.Update(next)
	s.events.publish(Event{
		Type:      a.eventType(),
		Kind:      a.Kind,
		ID:        a.TargetID(),
		Version:   next.Version,
		Timestamp: s.config.Clock().Unix(),
	})

	s.config.Logger.Debug("action applied", "kind", a.Kind, "id", a.TargetID(), "version", next.Version)
	return prev, next, nil
}

// Subscribe streams snapshots: first the current one, then every snapshot
// produced afterwards, in dispatch order and without gaps. The channel is
// closed once ctx is done.
func (s *Store) Subscribe(ctx context.Context) (<-chan State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	stream := s.prop.Observe()
	s.mu.RUnlock()

	out := make(chan State)
	s.subscribers.Add(1)

	go func() {
		defer s.subscribers.Add(-1)
		defer close(out)

		current := stream.Value().(State)
		for {
			select {
			case out <- current.Clone():
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-stream.Changes():
				current = stream.Next().(State)
			}
		}
	}()

	return out, nil
}

// Watch streams change events whose action kind matches pattern, a
// doublestar glob such as "*" or "*_LABEL". Events are buffered per
// watcher; the channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	return s.events.subscribe(ctx, pattern)
}
