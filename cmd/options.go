package cmd

import (
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List known categories, their items, and cities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()

		records, err := application.loadRecords(cmd.Context())
		if err != nil {
			return err
		}
		cat := application.insights.Catalog(records)
		w := cmd.OutOrStdout()
		return render(w, cat, func() {
			application.insights.PrintCatalog(w, cat)
		})
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
