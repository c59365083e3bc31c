package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebox/pkg/adapters/lifecycle"
	"github.com/aretw0/notebox/pkg/core"
)

func TestSource_ForwardsStoreEvents(t *testing.T) {
	store, err := core.NewStore(core.State{}, core.Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	src := lifecycle.NewSource(events)
	require.NoError(t, src.Start(ctx))

	n, err := store.AddNote(ctx, core.NoteDraft{Content: "bridged"})
	require.NoError(t, err)

	select {
	case e := <-src.Events():
		got, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, core.ActionAddNote, got.Kind)
		assert.Equal(t, n.ID, got.ID)
		assert.Contains(t, e.String(), n.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bridged event")
	}
}

func TestSource_ClosesWhenInputCloses(t *testing.T) {
	in := make(chan core.Event)
	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("source did not close")
	}
}

func TestSource_DeliversInOrderBeforeClosing(t *testing.T) {
	in := make(chan core.Event, 3)
	for _, id := range []string{"a", "b", "c"} {
		in <- core.Event{Kind: core.ActionEditNote, ID: id}
	}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	timeout := time.After(time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"a", "b", "c"}, got)
				return
			}
			got = append(got, e.(core.Event).ID)
		case <-timeout:
			t.Fatalf("source did not drain, got %v", got)
		}
	}
}
