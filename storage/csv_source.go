package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ethical-pricing/models"
)

// columnAliases maps accepted header names onto the dataset columns.
var columnAliases = map[string]string{
	"item_category": "item_category",
	"category":      "item_category",
	"item_name":     "item_name",
	"item":          "item_name",
	"city":          "city",
	"base_price":    "base_price",
	"price":         "base_price",
}

var requiredColumns = []string{"item_category", "item_name", "city", "base_price"}

// CSVSource reads the historical dataset from a CSV file with a header row.
// Columns are matched by name, case-insensitively; extra columns are ignored.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]*models.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	return readRecords(ctx, f)
}

func readRecords(ctx context.Context, r io.Reader) ([]*models.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	// A canonical header name wins over an alias; otherwise the first match is used.
	idx := make(map[string]int, len(requiredColumns))
	canonical := make(map[string]bool, len(requiredColumns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		col, ok := columnAliases[name]
		if !ok || canonical[col] {
			continue
		}
		if _, seen := idx[col]; !seen || name == col {
			idx[col] = i
			canonical[col] = name == col
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", col)
		}
	}

	field := func(row []string, col string) string {
		if i := idx[col]; i < len(row) {
			return row[i]
		}
		return ""
	}

	var out []*models.RawRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		out = append(out, &models.RawRecord{
			Category:  field(row, "item_category"),
			ItemName:  field(row, "item_name"),
			City:      field(row, "city"),
			BasePrice: field(row, "base_price"),
		})
	}
	return out, nil
}
