package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/order-tracker/internal/app"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/prompt"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPathFlag string
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "order-tracker",
	Short: "Reconcile Best Buy orders from your mailbox",
	Long: `order-tracker reads Best Buy order emails over IMAP and rebuilds the
state of each order: what was bought, whether it was cancelled, and the
tracking numbers it shipped with. Results are kept in a local SQLite
database and can be exported to CSV or XLSX.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", model.DefaultConfigPath(), "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// newApp loads the configuration and builds the application with a
// logger at the configured level.
func newApp() (*app.App, error) {
	cfg, err := model.LoadConfig(configPathFlag)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verboseFlag {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)

	return app.New(cfg, configPathFlag, app.WithLogger(logger)), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
