package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/pkg/adapters/seed"
	"github.com/aretw0/notebox/pkg/core"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note, live or trashed, as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		id := args[0]
		s := store.State()
		n, ok := s.FindNote(id)
		trashed := false
		if !ok {
			if n, ok = s.FindTrashed(id); !ok {
				return fmt.Errorf("show %q: %w", id, core.ErrNoteNotFound)
			}
			trashed = true
		}

		out := cmd.OutOrStdout()
		if showJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(struct {
				core.Note
				Trashed  bool         `json:"trashed"`
				Resolved []core.Label `json:"resolved_labels"`
			}{n, trashed, store.NoteLabels(n)})
		}

		data, err := seed.FormatNote(n)
		if err != nil {
			return err
		}
		if trashed {
			fmt.Fprintln(out, "# (in trash)")
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
