package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ethical-pricing/config"
	"ethical-pricing/utils"
)

var (
	// Global flags
	envFile     string
	datasetPath string
	debug       bool
	noHistory   bool
	format      string

	application *app
)

var rootCmd = &cobra.Command{
	Use:   "ethical-pricing",
	Short: "Check whether a price is fair for an item in a city",
	Long: `ethical-pricing estimates a fair price for an item in a city from historical
transactions and labels it Underpriced, Overpriced or Fair against the observed
price range for that item and city.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch format {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unsupported --format: %s", format)
		}

		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if datasetPath != "" {
			cfg.DatasetSource = "csv"
			cfg.DatasetPath = datasetPath
		}
		if noHistory {
			cfg.HistoryBackend = "none"
		}
		level := cfg.LogLevel
		if debug {
			level = "debug"
		}
		application = newApp(cfg, utils.NewLogger(level))
		return application.connect()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is ./.env)")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "CSV dataset path (overrides DATASET_SOURCE/DATASET_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record assessments")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "text", "output format: text|json|yaml")
}
