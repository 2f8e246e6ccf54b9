package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded assessments, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()

		log, err := application.history()
		if err != nil {
			return err
		}
		if log == nil {
			return errors.New("history is disabled (HISTORY_BACKEND=none)")
		}
		entries, err := log.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return render(w, entries, func() {
			application.insights.PrintHistory(w, entries)
		})
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of most recent entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
