package storage

import (
	"context"

	"ethical-pricing/models"
)

// DatasetSource yields the raw historical dataset.
type DatasetSource interface {
	Load(ctx context.Context) ([]*models.RawRecord, error)
}

// RecordWriter is the interface any backend that stores cleaned records must satisfy.
type RecordWriter interface {
	Write(ctx context.Context, records []models.Record) error
	Close() error
}

// HistoryLog is an append-only log of assessments. Entries are never updated or removed.
type HistoryLog interface {
	Append(ctx context.Context, e *models.HistoryEntry) error
	// List returns the most recent limit entries in the order they were appended.
	// A limit of 0 or less returns everything.
	List(ctx context.Context, limit int) ([]*models.HistoryEntry, error)
	Close() error
}
