package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var stateScript string

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the introspection state of the store as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		if stateScript != "" {
			if _, err := applyScript(cmd.Context(), cmd.ErrOrStderr(), store, stateScript); err != nil {
				return err
			}
		}

		report := introspect(store.Introspect())
		report["config"] = cfg
		report["seed"] = seedPath

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	},
}

// introspect keys the state of each part by its component type.
func introspect(parts ...introspection.Introspectable) map[string]any {
	report := make(map[string]any, len(parts)+2)
	for i, p := range parts {
		key := fmt.Sprintf("component_%d", i)
		if c, ok := p.(introspection.Component); ok {
			key = c.ComponentType()
		}
		report[key] = p.State()
	}
	return report
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().StringVar(&stateScript, "script", "", "Replay a script before reporting")
}
