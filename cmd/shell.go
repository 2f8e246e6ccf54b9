package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Assess prices interactively, one \"category, item, city\" per line",
	Long: `Reads "category, item, city" lines from stdin and assesses each one against
a model fitted once at start-up.

Commands:
  :reload   re-read the dataset and refit the model
  :quit     exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		svc, err := buildService(ctx)
		if err != nil {
			return err
		}

		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			switch line {
			case "":
				continue
			case ":quit", ":q":
				return nil
			case ":reload":
				records, err := application.loadRecords(ctx)
				if err == nil {
					err = svc.Reload(records)
				}
				if err != nil {
					application.logger.Error("[shell] Reload failed, keeping current model: %v", err)
					continue
				}
				fmt.Fprintf(w, "✓ Reloaded %d records\n", svc.Snapshot().Rows())
				continue
			}

			parts := strings.Split(line, ",")
			if len(parts) != 3 {
				fmt.Fprintln(w, "expected: category, item, city")
				continue
			}
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			if err := assessAndRecord(ctx, w, svc, parts[0], parts[1], parts[2]); err != nil {
				return err
			}
		}
		return sc.Err()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
