package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/internal/platform"
	"github.com/aretw0/notebox/internal/script"
)

var (
	applyFormat string
	applyQuiet  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <script>",
	Short: "Replay a script of operations on the seeded store",
	Long: `Replay a YAML script on the seeded store, print one line per step and
then the final snapshot. Failing steps are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		failed, err := applyScript(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		if err != nil {
			return err
		}

		if !applyQuiet {
			if err := platform.Loader().Export(cmd.OutOrStdout(), store.State(), applyFormat); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d step(s) failed", failed)
		}
		return nil
	},
}

// applyScript loads and runs the script at path, printing every outcome.
// It returns the number of failed steps.
func applyScript(ctx context.Context, out io.Writer, store *notebox.Store, path string) (int, error) {
	steps, err := script.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	failed := 0
	runner := script.Runner{Store: store, Logger: logger}
	for _, o := range runner.Run(ctx, steps) {
		if o.Err != nil {
			failed++
		}
		fmt.Fprintln(out, o)
	}
	return failed, nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyFormat, "format", "f", "yaml", "Snapshot format (yaml, json)")
	applyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "Only print step outcomes")
}
