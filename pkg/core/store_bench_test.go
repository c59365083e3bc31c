package core_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/notebox/pkg/core"
)

func BenchmarkStore_AddNote(b *testing.B) {
	for _, size := range []int{0, 1000, 10000} {
		b.Run(fmt.Sprintf("seed=%d", size), func(b *testing.B) {
			seed := core.State{Notes: make([]core.Note, size)}
			for i := range seed.Notes {
				seed.Notes[i] = core.Note{ID: fmt.Sprintf("n%d", i), Content: "seeded"}
			}
			store, err := core.NewStore(seed, core.Config{})
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.AddNote(ctx, core.NoteDraft{Content: "bench"}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkReduce_TrashNote(b *testing.B) {
	s := seedState()
	a := core.Action{Kind: core.ActionTrashNote, ID: "n2"}

	for i := 0; i < b.N; i++ {
		if _, err := core.Reduce(s, a); err != nil {
			b.Fatal(err)
		}
	}
}
