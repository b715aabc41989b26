package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/app"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "proposal-cli",
		Short:         "Inspect orders and render proposals from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(renderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadApp builds the same dependencies as the server. Logs go to stderr so
// command output stays clean.
func loadApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, err
	}
	log = log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

	return app.New(cfg, log)
}
