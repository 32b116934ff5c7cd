package cmd

import (
	"errors"
	"fmt"
	"os"

	"flight-price-bot/config"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "pricebot",
		Short: "Flight price watcher with Telegram alerts",
		Long: `pricebot polls the flight pricing service for a fixed set of routes,
keeps a price history, reports drops to a Telegram chat and sends daily charts.`,
		RunE:          runBot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the root command and returns the process exit code
func Execute(version string) int {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, config.ErrConfig) {
			return 2
		}
		return 1
	}
	return 0
}
