package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
)

var (
	listJSON       bool
	listLabel      string
	listBookmarked bool
)

var listCmd = &cobra.Command{
	Use:       "list [notes|trash|labels|colors]",
	Short:     "List a collection of the seeded store",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"notes", "trash", "labels", "colors"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if listLabel != "" && !doublestar.ValidatePattern(listLabel) {
			return fmt.Errorf("invalid label pattern %q", listLabel)
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		collection := "notes"
		if len(args) == 1 {
			collection = args[0]
		}

		out := cmd.OutOrStdout()
		var items any
		switch collection {
		case "labels":
			items = store.Labels()
		case "colors":
			items = store.Colors()
		case "trash":
			items = filterNotes(store, store.Trash())
		default:
			items = filterNotes(store, store.Notes())
		}

		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(items)
		}

		switch v := items.(type) {
		case []core.Note:
			for _, n := range v {
				printNoteLine(out, store, n)
			}
		case []core.Label:
			for _, l := range v {
				fmt.Fprintf(out, "%s\t%s\n", l.ID, l.Text)
			}
		case []core.Color:
			for _, c := range v {
				fmt.Fprintln(out, c)
			}
		}
		return nil
	},
}

// filterNotes applies the --label and --bookmarked filters. A note
// matches --label when one of its labels matches by id or text.
func filterNotes(store *notebox.Store, notes []core.Note) []core.Note {
	filtered := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if listBookmarked && !n.IsBookmarked {
			continue
		}
		if listLabel != "" && !matchesLabel(store, n, listLabel) {
			continue
		}
		filtered = append(filtered, n)
	}
	return filtered
}

func matchesLabel(store *notebox.Store, n core.Note, pattern string) bool {
	for _, id := range n.Labels {
		if ok, _ := doublestar.Match(pattern, id); ok {
			return true
		}
	}
	for _, l := range store.NoteLabels(n) {
		if ok, _ := doublestar.Match(pattern, l.Text); ok {
			return true
		}
	}
	return false
}

func printNoteLine(w io.Writer, store *notebox.Store, n core.Note) {
	mark := " "
	if n.IsBookmarked {
		mark = "*"
	}
	var texts []string
	for _, l := range store.NoteLabels(n) {
		texts = append(texts, l.Text)
	}
	summary, _, _ := strings.Cut(n.Content, "\n")
	fmt.Fprintf(w, "%s %s\t%s\t[%s]\n", mark, n.ID, summary, strings.Join(texts, ","))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listLabel, "label", "", "Filter notes by label id or text (glob)")
	listCmd.Flags().BoolVar(&listBookmarked, "bookmarked", false, "Only bookmarked notes")
}
