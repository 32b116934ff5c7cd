package cmd

import (
	"fmt"

	"flight-price-bot/services"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single price check over all routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		app.restoreState(cmd.Context())
		res := app.watcher.CheckPrices(cmd.Context(), app.state)
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d routes: %d recorded, %d without data, %d notifications\n",
			res.Checked, res.Recorded, res.NoData, res.Notified)
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render price charts from history and send them now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		sent, err := app.charts.SendCharts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %d charts\n", sent)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print a per-route summary of the recorded price history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		groups, err := app.store.ReadAll(cmd.Context())
		if err != nil {
			return err
		}
		services.PrintHistoryReport(cmd.OutOrStdout(), services.Summarize(groups), app.cfg.CurrencySymbol)
		return nil
	},
}
