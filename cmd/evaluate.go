package cmd

import (
	"github.com/spf13/cobra"

	"ethical-pricing/pricing"
)

var evalTestFraction float64

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Report holdout MAE and R² of the price model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()

		records, err := application.loadRecords(cmd.Context())
		if err != nil {
			return err
		}
		frac := application.cfg.TestFraction
		if cmd.Flags().Changed("test-fraction") {
			frac = evalTestFraction
		}
		m, err := pricing.Evaluate(records, application.cfg.ForestOptions(), frac)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return render(w, m, func() {
			application.insights.PrintMetrics(w, m)
		})
	},
}

func init() {
	evaluateCmd.Flags().Float64Var(&evalTestFraction, "test-fraction", 0.2, "share of rows held out for scoring (overrides TEST_FRACTION)")
	rootCmd.AddCommand(evaluateCmd)
}
