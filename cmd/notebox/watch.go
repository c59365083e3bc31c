package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/notebox/pkg/adapters/lifecycle"
	"github.com/aretw0/notebox/pkg/adapters/seed"
)

var (
	watchEvents   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Replay a script every time it or the seed changes",
	Long: `Replay a script on a fresh store built from the seed, then again each
time the script or the seed changes on disk. Store events matching
--events are streamed as they happen.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := &syncWriter{w: cmd.OutOrStdout()}
		scriptPath := args[0]

		scriptWatcher := seed.NewWatcher(scriptPath,
			seed.WithDebounce(watchDebounce),
			seed.WithWatchLogger(logger),
		)
		scriptChanges, err := scriptWatcher.Watch(ctx)
		if err != nil {
			return err
		}
		watchers := []introspection.Introspectable{scriptWatcher}

		var seedChanges <-chan time.Time
		if seedPath != "" {
			seedWatcher := seed.NewWatcher(seedPath,
				seed.WithDebounce(watchDebounce),
				seed.WithWatchLogger(logger),
			)
			seedChanges, err = seedWatcher.Watch(ctx)
			if err != nil {
				return err
			}
			watchers = append(watchers, seedWatcher)
		}

		g, ctx := errgroup.WithContext(ctx)

		// run replays the script on a fresh store and streams its events
		// until the returned cancel is called.
		run := func() context.CancelFunc {
			runCtx, cancel := context.WithCancel(ctx)

			store, err := openStore()
			if err != nil {
				logger.Error("failed to open store", "error", err)
				return cancel
			}

			events, err := store.Watch(runCtx, watchEvents)
			if err != nil {
				logger.Error("failed to watch store", "error", err)
				return cancel
			}
			source := lifecycle.NewSource(events)
			if err := source.Start(runCtx); err != nil {
				logger.Error("failed to start event source", "error", err)
				return cancel
			}
			g.Go(func() error {
				for e := range source.Events() {
					fmt.Fprintf(out, "event %s\n", e)
				}
				return nil
			})

			failed, err := applyScript(runCtx, out, store, scriptPath)
			if err != nil {
				logger.Error("failed to apply script", "error", err)
				return cancel
			}
			logger.Info("script applied", "failed", failed, "version", store.State().Version)
			for _, w := range watchers {
				logger.Debug("watcher state", "state", w.State())
			}
			return cancel
		}

		g.Go(func() error {
			cancel := run()
			for {
				select {
				case <-ctx.Done():
					cancel()
					return nil
				case _, ok := <-scriptChanges:
					if !ok {
						cancel()
						return nil
					}
				case _, ok := <-seedChanges:
					if !ok {
						seedChanges = nil
						continue
					}
				}
				fmt.Fprintln(out, "--- change detected, replaying")
				cancel()
				cancel = run()
			}
		})

		return g.Wait()
	},
}

// syncWriter serializes writes from the event and replay goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchEvents, "events", "*", "Glob over action kinds to stream (e.g. '*_LABEL')")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", seed.DefaultDebounce, "Quiet period before replaying")
}
