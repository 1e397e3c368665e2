package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    = LoadConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "vhfconsole",
	Short: "VHF gateway admin console",
	Long: `vhfconsole administers a VHF weather announcement gateway.

It serves the web console (serve) and drives the same gateway API
from the terminal: channels, forecast, history, settings and users.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "gateway base URL (env VHF_API_URL)")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "gateway request timeout")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
}

func setupLogger(cmd *cobra.Command, args []string) error {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}
