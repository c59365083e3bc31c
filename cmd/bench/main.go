package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark fixture after running")
	flag.Parse()

	// 1. Setup fixture
	benchDir, err := os.MkdirTemp("", "notebox_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d notes in %s...\n", *count, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		content := fmt.Sprintf("---\ncolors: [red]\nlabels: [bench]\nupdated_at: %s\n---\nBenchmark note %d\n", time.Now().UTC().Format(time.RFC3339), i)
		filename := filepath.Join(benchDir, fmt.Sprintf("note_%d.md", i))
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// 2. Load the fixture
	startLoad := time.Now()
	store, err := notebox.Open(benchDir, notebox.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	loadDuration := time.Since(startLoad)
	fmt.Printf("Load: %v (Items: %d)\n", loadDuration, len(store.Notes()))

	// 3. Trash and restore every note, with a subscriber attached
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots, err := store.Subscribe(ctx)
	if err != nil {
		panic(err)
	}
	go func() {
		for range snapshots {
		}
	}()

	startDispatch := time.Now()
	for _, n := range store.Notes() {
		trashed, err := store.TrashNote(ctx, n.ID)
		if err != nil {
			panic(err)
		}
		if _, err := store.RestoreNote(ctx, trashed); err != nil {
			panic(err)
		}
	}
	dispatchDuration := time.Since(startDispatch)

	if _, err := store.AddNote(ctx, core.NoteDraft{Content: "sentinel"}); err != nil {
		panic(err)
	}

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  Load:     %v\n", loadDuration)
	fmt.Printf("  Dispatch: %v (%d actions, version %d)\n", dispatchDuration, 2**count, store.State().Version)
	fmt.Printf("--------------------------------------------------\n")
}
