package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"diagindex/internal/adapters/filesystem"
	"diagindex/internal/adapters/jsonstore"
	"diagindex/internal/adapters/sqlite"
	"diagindex/internal/application"
	"diagindex/internal/application/commands"
	"diagindex/internal/config"
	"diagindex/internal/logger"
	"diagindex/internal/ports"
)

var (
	cfg config.Config

	summaryOut io.Writer = os.Stdout

	outputPath  string
	storeKind   string
	verbose     bool
	incremental bool
)

var rootCmd = &cobra.Command{
	Use:   "diagindex <dir>",
	Short: "Index mermaid diagrams and canvas boards",
	Long: `diagindex scans a directory for markdown documents with mermaid diagrams
and JSON Canvas boards, and writes an index that maps node identifiers
back to the files and lines where they appear.

Examples:
  diagindex ./docs
  diagindex ./docs --incremental --output build/index.json
  diagindex find Api
  diagindex watch ./docs`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		return runIndex(cmd.Context(), store, args[0], cfg.Incremental)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", config.DefaultOutput, "index file to write")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", config.DefaultStore, "index store: json or sqlite")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print progress details")
	rootCmd.Flags().BoolVarP(&incremental, "incremental", "i", false, "reprocess only files whose modification time changed")
}

// loadConfig merges the config file and environment with explicitly set flags
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(".")
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = storeKind
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	} else {
		cfg.Output = cfg.OutputFor(cfg.Store)
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Lookup("incremental") != nil && flags.Changed("incremental") {
		cfg.Incremental = incremental
	}

	if err := application.ValidateOneOf("store", cfg.Store, config.StoreJSON, config.StoreSQLite); err != nil {
		return err
	}

	logger.SetVerbose(cfg.Verbose)
	logger.Debug("config: output=%s store=%s incremental=%t", cfg.Output, cfg.Store, cfg.Incremental)
	return nil
}

// openStore opens the configured index store
func openStore() (ports.IndexStore, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Output)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return jsonstore.NewStore(cfg.Output), func() error { return nil }, nil
	}
}

// runIndex builds and saves the index, printing warnings and the summary
func runIndex(ctx context.Context, store ports.IndexStore, root string, incremental bool) error {
	logger.Info("indexing %s into %s", root, store.Location())

	result, err := commands.NewIndexCommand(filesystem.NewSource(), store, root, incremental).Execute(ctx)
	if err != nil {
		return err
	}

	switch {
	case result.LoadWarning == nil:
	case errors.Is(result.LoadWarning, fs.ErrNotExist):
		// First incremental run, nothing to reuse yet
		logger.Debug("%v", result.LoadWarning)
	default:
		logger.Warn("%v", result.LoadWarning)
	}
	for _, w := range result.Warnings {
		logger.Warn("%v", w)
	}

	fmt.Fprintln(summaryOut, result.Summary())
	if logger.IsVerbose() {
		s := result.Stats
		logger.Info("scanned %d files (%d without diagrams, %d failed) in %s", s.Scanned, s.Empty, s.Failed, s.Duration)
		logger.Info("index %s holds %d files", store.Location(), len(result.Document.Files))
	}
	return nil
}
