package cmd

import (
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <category> <item> [city...]",
	Short: "Compare min/max/mean historical prices of an item across cities",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()

		records, err := application.loadRecords(cmd.Context())
		if err != nil {
			return err
		}
		cmp, err := application.insights.Compare(records, args[0], args[1], args[2:]...)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return render(w, cmp, func() {
			application.insights.PrintComparison(w, cmp)
		})
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
