package notebox_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
)

// Example_basic demonstrates adding a note, trashing it and restoring it.
func Example_basic() {
	store, err := notebox.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Add a note
	n, err := store.AddNote(ctx, core.NoteDraft{Content: "hi"})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Move it to trash
	trashed, err := store.TrashNote(ctx, n.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("notes=%d trash=%d\n", len(store.Notes()), len(store.Trash()))

	// 3. Restore it
	if _, err := store.RestoreNote(ctx, trashed); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("notes=%d trash=%d content=%s\n", len(store.Notes()), len(store.Trash()), store.Notes()[0].Content)
	// Output:
	// notes=0 trash=1
	// notes=1 trash=0 content=hi
}

// Example_labels demonstrates label management with cascading deletes.
func Example_labels() {
	seed := notebox.State{
		Notes:  []notebox.Note{{ID: "n1", Labels: []string{"l1", "l2"}}},
		Labels: []notebox.Label{{ID: "l1", Text: "work"}, {ID: "l2", Text: "home"}},
	}

	store, err := notebox.New(notebox.WithSeed(seed), notebox.WithLabelCascade(true))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := store.DeleteLabel(context.Background(), "l1"); err != nil {
		log.Fatal(err)
	}

	n, _ := store.Note("n1")
	fmt.Println(n.Labels, len(store.Labels()))
	// Output:
	// [l2] 1
}
