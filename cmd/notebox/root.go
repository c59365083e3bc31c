package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/internal/config"
	"github.com/aretw0/notebox/internal/logging"
)

var (
	verbose  bool
	pretty   bool
	seedPath string

	cfg    config.Config
	logger = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notebox",
	Short: "Inspect and drive a note store from fixtures and scripts",
	Long: `notebox loads notes, trash and labels from a seed fixture (YAML, JSON
or a directory of Markdown notes) and replays scripted operations on them.
Nothing is persisted: export writes snapshots for inspection only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Parse()
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(cmd.ErrOrStderr(), level, pretty || cfg.Log.Pretty)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		if seedPath == "" {
			seedPath = cfg.Store.Seed
		}
		if seedPath == "" {
			if wd, err := os.Getwd(); err == nil {
				if found, err := notebox.FindSeed(wd); err == nil {
					logger.Debug("using discovered seed", "path", found)
					seedPath = found
				}
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore builds a store from the seed and the environment.
func openStore() (*notebox.Store, error) {
	opts := []notebox.Option{
		notebox.WithLogger(logger),
		notebox.WithEventBuffer(cfg.Store.EventBuffer),
		notebox.WithLabelCascade(cfg.Store.LabelCascade),
		notebox.WithReadOnly(cfg.Store.ReadOnly),
	}
	if seedPath != "" {
		opts = append(opts, notebox.WithSeedFile(seedPath))
	}
	return notebox.New(opts...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human friendly colored logs")
	rootCmd.PersistentFlags().StringVarP(&seedPath, "seed", "s", "", "Seed fixture (file or Markdown directory)")
}
