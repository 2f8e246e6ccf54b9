package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"ethical-pricing/models"
)

var historyHeader = []string{
	"id", "created_at", "item_category", "item_name", "city", "predicted_price", "label", "error",
}

// CSVHistory appends assessments to a CSV file. It is safe for concurrent use.
type CSVHistory struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVHistory opens (or creates) the history file at path in append mode and writes
// the header row when the file is new. Intermediate directories are created automatically.
func NewCSVHistory(path string) (*CSVHistory, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: create history dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("csv: open history %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat history: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
	}

	return &CSVHistory{path: path, file: f, writer: w}, nil
}

func (h *CSVHistory) Append(_ context.Context, e *models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	price := ""
	if e.Error == "" {
		price = strconv.FormatFloat(e.PredictedPrice, 'f', 2, 64)
	}
	row := []string{
		e.ID,
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.Category,
		e.ItemName,
		e.City,
		price,
		string(e.Label),
		e.Error,
	}
	if err := h.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write history row: %w", err)
	}
	h.writer.Flush()
	return h.writer.Error()
}

func (h *CSVHistory) List(_ context.Context, limit int) ([]*models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open history %q: %w", h.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(historyHeader)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csv: read history header: %w", err)
	}

	var entries []*models.HistoryEntry
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read history: %w", err)
		}
		e, err := parseHistoryRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func parseHistoryRow(row []string) (*models.HistoryEntry, error) {
	created, err := time.Parse(time.RFC3339, row[1])
	if err != nil {
		return nil, fmt.Errorf("csv: history %s: bad timestamp: %w", row[0], err)
	}
	e := &models.HistoryEntry{
		ID:        row[0],
		CreatedAt: created,
		Category:  row[2],
		ItemName:  row[3],
		City:      row[4],
		Label:     models.Label(row[6]),
		Error:     row[7],
	}
	if row[5] != "" {
		if e.PredictedPrice, err = strconv.ParseFloat(row[5], 64); err != nil {
			return nil, fmt.Errorf("csv: history %s: bad price: %w", row[0], err)
		}
	}
	return e, nil
}

// Close flushes and closes the underlying file.
func (h *CSVHistory) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writer.Flush()
	return h.file.Close()
}
