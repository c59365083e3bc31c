package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/internal/platform"
)

var (
	exportFormat string
	exportOut    string
	exportDir    string
	exportScript string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of the seeded store",
	Long: `Write a snapshot of the seeded store, optionally after replaying a script.
--out writes a YAML or JSON file atomically, --dir writes a Markdown fixture
that can be used as a seed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut != "" && exportDir != "" {
			return fmt.Errorf("--out and --dir are mutually exclusive")
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		if exportScript != "" {
			if _, err := applyScript(cmd.Context(), cmd.ErrOrStderr(), store, exportScript); err != nil {
				return err
			}
		}

		loader := platform.Loader(platform.WithLogger(logger))
		switch {
		case exportDir != "":
			return loader.WriteDir(exportDir, store.State())
		case exportOut != "":
			return loader.WriteFile(exportOut, store.State())
		default:
			return loader.Export(cmd.OutOrStdout(), store.State(), exportFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Output format when writing to stdout (yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file, format from its extension")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Write a Markdown fixture directory")
	exportCmd.Flags().StringVar(&exportScript, "script", "", "Replay a script before exporting")
}
