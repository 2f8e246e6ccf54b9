package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ethical-pricing/services"
	"ethical-pricing/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Clean a CSV dataset and store it in PostgreSQL, replacing existing records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()
		ctx := cmd.Context()

		raw, err := storage.NewCSVSource(args[0]).Load(ctx)
		if err != nil {
			return err
		}
		records := services.NewCleaner(application.logger).Clean(raw)
		if len(records) == 0 {
			return fmt.Errorf("no usable records in %s", args[0])
		}

		w, err := application.recordWriter()
		if err != nil {
			return err
		}
		if err := w.Write(ctx, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d records into price_records\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
