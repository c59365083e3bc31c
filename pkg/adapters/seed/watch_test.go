package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebox/pkg/adapters/seed"
)

func waitChange(t *testing.T, ch <-chan time.Time) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.True(t, ok, "channel closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_FileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notes: []\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := seed.NewWatcher(path, seed.WithDebounce(10*time.Millisecond))
	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, seed.TempFilePrefix+"1"), []byte("x"), 0644))
	select {
	case <-changes:
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("notes: []\ncolors: [red]\n"), 0644))
	waitChange(t, changes)

	state := w.State().(seed.WatcherState)
	assert.True(t, state.Active)
	assert.False(t, state.Directory)
	assert.Equal(t, 1, state.Changes)
	assert.NotNil(t, state.LastChange)
	assert.Equal(t, "watcher", w.ComponentType())

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return !w.State().(seed.WatcherState).Active
	}, time.Second, 10*time.Millisecond)
}

func TestWatcher_DirectoryCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, seed.NewLoader(nil).WriteDir(dir, sampleState()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := seed.NewWatcher(dir, seed.WithDebounce(100*time.Millisecond))
	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "n1.md"), []byte("edited"), 0644))
	}
	waitChange(t, changes)

	select {
	case <-changes:
		t.Fatal("burst produced more than one change")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.md"), []byte("x"), 0644))
	waitChange(t, changes)
}

func TestWatcher_MissingPath(t *testing.T) {
	_, err := seed.NewWatcher(filepath.Join(t.TempDir(), "nope.yaml")).Watch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
