// Command kagzat runs the document-verification service and its terminal
// tools: the demo wizards, form filling, field validation and export.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/config"
	"github.com/Kagzat/kagzat-india-sub000/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger = zap.NewNop()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kagzat",
		Short:         "Document verification forms, wizards and service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if verbose {
				loaded.Log.Level = "debug"
			}
			built, err := logging.New(logging.Config{Level: loaded.Log.Level, Format: loaded.Log.Format})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, logger = loaded, built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newDemoCmd(),
		newFillCmd(),
		newValidateCmd(),
		newFieldsCmd(),
		newExportCmd(),
		newImportCmd(),
		newRoutesCmd(),
		newAuthCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
