package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ethical-pricing/models"
	"ethical-pricing/pricing"
)

// errorResult is the rendered shape of a failed assessment.
type errorResult struct {
	Error   string `json:"error" yaml:"error"`
	Message string `json:"message" yaml:"message"`
}

var assessCmd = &cobra.Command{
	Use:   "assess <category> <item> <city>",
	Short: "Predict a fair price and label it against the historical range",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer application.Close()
		ctx := cmd.Context()

		svc, err := buildService(ctx)
		if err != nil {
			return err
		}
		return assessAndRecord(ctx, cmd.OutOrStdout(), svc, args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}

// buildService loads the dataset and fits the model. An empty dataset is fatal.
func buildService(ctx context.Context) (*pricing.Service, error) {
	records, err := application.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := pricing.NewService(records, application.cfg.ForestOptions())
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}
	snap := svc.Snapshot()
	application.logger.Info("[assess] Model ready: %d records, %d price buckets", snap.Rows(), snap.Buckets())
	return svc, nil
}

// assessAndRecord runs one assessment, appends it to the history log and renders
// the result. Unknown values and missing history are reported to the user, not
// returned as errors.
func assessAndRecord(ctx context.Context, w io.Writer, svc *pricing.Service, category, item, city string) error {
	a, err := svc.Assess(category, item, city)
	kind := pricing.ErrorKind(err)
	if kind == "InternalError" {
		return err
	}

	entry := &models.HistoryEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Category:  category,
		ItemName:  item,
		City:      city,
	}
	if err != nil {
		entry.Error = kind
	} else {
		entry.PredictedPrice = a.PredictedPrice
		entry.Label = a.Label
	}
	recordHistory(ctx, entry)

	if err != nil {
		return render(w, errorResult{Error: kind, Message: err.Error()}, func() {
			application.insights.PrintError(w, kind, err)
		})
	}
	return render(w, a, func() {
		application.insights.PrintAssessment(w, a)
	})
}

func recordHistory(ctx context.Context, e *models.HistoryEntry) {
	log, err := application.history()
	if err != nil {
		application.logger.Warn("[history] Unavailable: %v", err)
		return
	}
	if log == nil {
		return
	}
	if err := log.Append(ctx, e); err != nil {
		application.logger.Warn("[history] Append failed: %v", err)
	}
}
