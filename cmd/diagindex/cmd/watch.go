package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"diagindex/internal/adapters/watcher"
	"diagindex/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Rebuild the index whenever documents change",
	Long: `Build the index once, then watch the directory and run an incremental
rebuild after each burst of changes settles. Stop with Ctrl+C.

Examples:
  diagindex watch ./docs
  DIAGINDEX_DEBOUNCE=2s diagindex watch ./docs`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runIndex(ctx, store, root, cfg.Incremental); err != nil {
			return err
		}

		w, err := watcher.New(root, cfg.Debounce, func(ctx context.Context) error {
			return runIndex(ctx, store, root, true)
		})
		if err != nil {
			return err
		}
		defer w.Close()

		logger.Info("watching %s (debounce %s)", root, cfg.Debounce)

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
