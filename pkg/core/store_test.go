package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebox/pkg/core"
)

func newStore(t *testing.T, seed core.State, cfg core.Config) *core.Store {
	t.Helper()
	store, err := core.NewStore(seed, cfg)
	require.NoError(t, err)
	return store
}

// sequentialIDs hands out prefix-1, prefix-2, ... so tests can predict identifiers.
func sequentialIDs(prefix string) core.IDGenerator {
	i := 0
	return core.IDFunc(func() string {
		i++
		return fmt.Sprintf("%s-%d", prefix, i)
	})
}

func TestStore_Scenario(t *testing.T) {
	store := newStore(t, core.State{}, core.Config{})
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	note, err := store.AddNote(ctx, core.NoteDraft{Colors: []string{}, Labels: []string{}, Content: "hi", UpdatedAt: at})
	require.NoError(t, err)
	require.Len(t, store.Notes(), 1)
	assert.Equal(t, "hi", store.Notes()[0].Content)

	trashed, err := store.TrashNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, store.Notes())
	require.Len(t, store.Trash(), 1)
	assert.Equal(t, "hi", store.Trash()[0].Content)

	restored, err := store.RestoreNote(ctx, trashed)
	require.NoError(t, err)
	assert.Len(t, store.Notes(), 1)
	assert.Empty(t, store.Trash())
	assert.Equal(t, note, restored)
}

func TestStore_AddNoteGeneratesUniqueIDs(t *testing.T) {
	store := newStore(t, core.State{}, core.Config{})
	ctx := context.Background()

	const calls = 200
	seen := make(map[string]struct{}, calls)
	for i := 0; i < calls; i++ {
		n, err := store.AddNote(ctx, core.NoteDraft{Content: fmt.Sprint(i)})
		require.NoError(t, err)
		seen[n.ID] = struct{}{}
	}

	assert.Len(t, store.Notes(), calls)
	assert.Len(t, seen, calls)
	for i, n := range store.Notes() {
		assert.Equal(t, fmt.Sprint(i), n.Content, "insertion order")
	}
}

func TestStore_AddNoteRetriesTakenID(t *testing.T) {
	calls := 0
	ids := core.IDFunc(func() string {
		calls++
		if calls == 1 {
			return "n1"
		}
		return "fresh"
	})
	store := newStore(t, seedState(), core.Config{IDs: ids})

	n, err := store.AddNote(context.Background(), core.NoteDraft{Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", n.ID)
	assert.Equal(t, 2, calls)
}

func TestStore_AddNoteGivesUpOnStuckGenerator(t *testing.T) {
	store := newStore(t, seedState(), core.Config{IDs: core.IDFunc(func() string { return "t1" })})

	_, err := store.AddNote(context.Background(), core.NoteDraft{})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	assert.Len(t, store.Notes(), 2)
}

func TestStore_TrashRestoreRoundTrip(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx := context.Background()
	original, err := store.Note("n2")
	require.NoError(t, err)

	trashed, err := store.TrashNote(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, original, trashed)

	_, err = store.RestoreNote(ctx, trashed)
	require.NoError(t, err)

	back, err := store.Note("n2")
	require.NoError(t, err)
	assert.Equal(t, original, back)
	_, inTrash := store.State().FindTrashed("n2")
	assert.False(t, inTrash)
}

func TestStore_NotFoundIsSignaled(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx := context.Background()
	before := store.State()

	_, err := store.TrashNote(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.DeleteNote(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.EditNote(ctx, "missing", core.NotePatch{Content: ptr("x")})
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.RestoreNote(ctx, core.Note{ID: "missing"})
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.RestoreNoteByID(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.PurgeNote(ctx, "n1")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = store.UpdateLabel(ctx, "missing", "x")
	assert.ErrorIs(t, err, core.ErrLabelNotFound)
	_, err = store.DeleteLabel(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrLabelNotFound)

	assert.Equal(t, before, store.State())
	assert.Equal(t, uint64(7), store.Inspect().Rejected)
}

func TestStore_DeleteNoteMovesToTrash(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx := context.Background()

	n, err := store.DeleteNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)

	_, inTrash := store.State().FindTrashed("n1")
	assert.True(t, inTrash)

	purged, err := store.PurgeNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, n, purged)
	_, inTrash = store.State().FindTrashed("n1")
	assert.False(t, inTrash)
	_, live := store.State().FindNote("n1")
	assert.False(t, live)
}

func TestStore_Labels(t *testing.T) {
	store := newStore(t, seedState(), core.Config{IDs: sequentialIDs("label")})
	ctx := context.Background()

	l, err := store.AddLabel(ctx, "errands")
	require.NoError(t, err)
	assert.Equal(t, core.Label{ID: "label-1", Text: "errands"}, l)

	l, err = store.UpdateLabel(ctx, "label-1", "chores")
	require.NoError(t, err)
	assert.Equal(t, "chores", l.Text)

	before := len(store.Labels())
	deleted, err := store.DeleteLabel(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, "home", deleted.Text)
	assert.Len(t, store.Labels(), before-1)

	n2, err := store.Note("n2")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, n2.Labels, "no cascade by default")
	assert.Equal(t, []core.Label{{ID: "l1", Text: "work"}}, store.NoteLabels(n2))
}

func TestStore_LabelCascade(t *testing.T) {
	store := newStore(t, seedState(), core.Config{LabelCascade: true})

	_, err := store.DeleteLabel(context.Background(), "l1")
	require.NoError(t, err)

	for _, n := range store.Notes() {
		assert.False(t, n.HasLabel("l1"), n.ID)
	}
}

func TestStore_ReadOnly(t *testing.T) {
	store := newStore(t, seedState(), core.Config{ReadOnly: true})
	ctx := context.Background()
	before := store.State()

	_, err := store.AddNote(ctx, core.NoteDraft{Content: "x"})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, err = store.TrashNote(ctx, "n1")
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, err = store.AddLabel(ctx, "x")
	assert.ErrorIs(t, err, core.ErrReadOnly)

	assert.Equal(t, before, store.State())
}

func TestStore_DispatchUnknownKind(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})

	next, err := store.Dispatch(context.Background(), core.Action{Kind: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, store.State(), next)
	assert.Zero(t, next.Version)
}

func TestStore_SeedIsCopied(t *testing.T) {
	seed := seedState()
	store := newStore(t, seed, core.Config{})

	seed.Notes[0].Content = "mutated by caller"
	seed.Notes[0].Labels[0] = "zzz"

	n, err := store.Note("n1")
	require.NoError(t, err)
	assert.Equal(t, "first", n.Content)
	assert.Equal(t, []string{"l1"}, n.Labels)
}

func TestStore_ReturnedCollectionsAreCopies(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	before := store.State()

	store.Notes()[0].Content = "mutated"
	store.Notes()[0].Colors[0] = "blue"
	store.Trash()[0].ID = "n1"
	store.Colors()[0] = "green"
	store.Labels()[0].Text = "renamed"

	s := store.State()
	s.Notes[0].Labels[0] = "zzz"
	s.Notes = s.Notes[:0]

	n, err := store.Note("n1")
	require.NoError(t, err)
	n.Colors[0] = "purple"

	n, err = store.Note("n1")
	require.NoError(t, err)
	assert.Equal(t, "first", n.Content)
	assert.Equal(t, []string{"red"}, n.Colors)
	assert.Equal(t, []string{"l1"}, n.Labels)
	assert.Equal(t, before, store.State())
	assert.NoError(t, store.State().Validate())
}

func TestStore_MutationResultsAreCopies(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx := context.Background()

	trashed, err := store.TrashNote(ctx, "n1")
	require.NoError(t, err)
	trashed.Labels[0] = "zzz"

	restored, err := store.RestoreNoteByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, restored.Labels)
	restored.Colors[0] = "zzz"

	next, err := store.Dispatch(ctx, core.Action{Kind: core.ActionEditNote, ID: "n2", Patch: core.NotePatch{Content: ptr("x")}})
	require.NoError(t, err)
	next.Notes[0].Content = "zzz"

	n, err := store.Note("n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, n.Colors)
	assert.Equal(t, "first", n.Content)
}

func TestStore_RemovalsReturnTheLatestEntity(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx := context.Background()

	_, err := store.UpdateLabel(ctx, "l2", "family")
	require.NoError(t, err)
	deleted, err := store.DeleteLabel(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, core.Label{ID: "l2", Text: "family"}, deleted)

	purged, err := store.PurgeNote(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "gone", purged.Content)
	_, err = store.PurgeNote(ctx, "t1")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestStore_RejectsInvalidSeed(t *testing.T) {
	seed := seedState()
	seed.Trash = append(seed.Trash, seed.Notes[0])

	_, err := core.NewStore(seed, core.Config{})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
}

func TestStore_SubscribeDeliversEverySnapshotInOrder(t *testing.T) {
	store := newStore(t, core.State{}, core.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := store.Subscribe(ctx)
	require.NoError(t, err)

	// Dispatch before reading: the subscriber must still see each version.
	for i := 0; i < 5; i++ {
		_, err := store.AddNote(ctx, core.NoteDraft{Content: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	for want := uint64(0); want <= 5; want++ {
		select {
		case s := <-snapshots:
			assert.Equal(t, want, s.Version)
			assert.Len(t, s.Notes, int(want))
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for version %d", want)
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-snapshots
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestStore_WatchEvents(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := newStore(t, seedState(), core.Config{Clock: func() time.Time { return now }})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	labels, err := store.Watch(ctx, "*_LABEL")
	require.NoError(t, err)
	all, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	_, err = store.TrashNote(ctx, "n1")
	require.NoError(t, err)
	_, err = store.UpdateLabel(ctx, "l3", "other")
	require.NoError(t, err)

	e := <-all
	assert.Equal(t, core.Event{Type: core.EventTrash, Kind: core.ActionTrashNote, ID: "n1", Version: 1, Timestamp: now.Unix()}, e)
	e = <-all
	assert.Equal(t, core.ActionUpdateLabel, e.Kind)

	e = <-labels
	assert.Equal(t, core.EventModify, e.Type)
	assert.Equal(t, "l3", e.ID)
	select {
	case extra := <-labels:
		t.Fatalf("unexpected event %v", extra)
	default:
	}

	assert.Equal(t, 2, store.Inspect().Watchers)
}

func TestStore_WatchRejectsBadPattern(t *testing.T) {
	store := newStore(t, core.State{}, core.Config{})

	_, err := store.Watch(context.Background(), "[")
	assert.ErrorIs(t, err, core.ErrInvalidPattern)
}

func TestStore_CancelledContext(t *testing.T) {
	store := newStore(t, seedState(), core.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.TrashNote(ctx, "n1")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Subscribe(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
