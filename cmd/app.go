package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"ethical-pricing/config"
	"ethical-pricing/models"
	"ethical-pricing/services"
	"ethical-pricing/storage"
	"ethical-pricing/utils"
)

// app wires configuration to the storage backends for a single command run.
type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	insights *services.InsightService

	pg   *storage.PostgresStore
	hist *storage.CSVHistory
}

func newApp(cfg *config.Config, logger *utils.Logger) *app {
	return &app{cfg: cfg, logger: logger, insights: services.NewInsightService(logger)}
}

func (a *app) postgres() (*storage.PostgresStore, error) {
	if a.pg != nil {
		return a.pg, nil
	}
	pg, err := storage.NewPostgresStore(a.cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.pg = pg
	return pg, nil
}

// connect opens PostgreSQL up front when any configured backend uses it, so a
// bad connection fails the command before any work is done.
func (a *app) connect() error {
	if !a.cfg.NeedsPostgres() {
		return nil
	}
	_, err := a.postgres()
	return err
}

// recordWriter returns the backend the import command stores cleaned records in.
func (a *app) recordWriter() (storage.RecordWriter, error) {
	pg, err := a.postgres()
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func (a *app) source() (storage.DatasetSource, error) {
	if a.cfg.DatasetSource == "postgres" {
		return a.postgres()
	}
	return storage.NewCSVSource(a.cfg.DatasetPath), nil
}

// loadRecords reads and cleans the historical dataset.
func (a *app) loadRecords(ctx context.Context) ([]models.Record, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("[app] Loaded %d raw records from %s", len(raw), a.cfg.DatasetSource)
	return services.NewCleaner(a.logger).Clean(raw), nil
}

// history returns the configured history log, or nil when recording is disabled.
func (a *app) history() (storage.HistoryLog, error) {
	switch a.cfg.HistoryBackend {
	case "csv":
		if a.hist == nil {
			h, err := storage.NewCSVHistory(a.cfg.HistoryPath)
			if err != nil {
				return nil, err
			}
			a.hist = h
		}
		return a.hist, nil
	case "postgres":
		return a.postgres()
	}
	return nil, nil
}

func (a *app) Close() {
	if a.hist != nil {
		if err := a.hist.Close(); err != nil {
			a.logger.Warn("[app] Closing history: %v", err)
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.logger.Warn("[app] Closing PostgreSQL: %v", err)
		}
	}
	_ = a.logger.Sync()
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, v any, text func()) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		text()
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}
