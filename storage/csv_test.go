package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ethical-pricing/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestCSVSourceLoad(t *testing.T) {
	p := writeFile(t, "prices.csv",
		"\ufeffItem_Category,item_name,city,base_price,market_place\n"+
			"Food,Rice,Pune,40,Local\n"+
			"Food,Rice,Pune,60,Online\n"+
			"Dairy,Milk,Mumbai,,Local\n"+
			"Dairy,Milk\n")

	raw, err := NewCSVSource(p).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("rows: got %d, want 4", len(raw))
	}
	want := models.RawRecord{Category: "Food", ItemName: "Rice", City: "Pune", BasePrice: "40"}
	if *raw[0] != want {
		t.Errorf("row 0: got %+v, want %+v", *raw[0], want)
	}
	if raw[2].BasePrice != "" {
		t.Errorf("row 2: expected empty price, got %q", raw[2].BasePrice)
	}
	if raw[3].City != "" || raw[3].BasePrice != "" {
		t.Errorf("short row should yield empty fields, got %+v", *raw[3])
	}
}

func TestCSVSourceAliases(t *testing.T) {
	p := writeFile(t, "prices.csv", "city,price,item,category\nPune,40,Rice,Food\n")
	raw, err := NewCSVSource(p).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := models.RawRecord{Category: "Food", ItemName: "Rice", City: "Pune", BasePrice: "40"}
	if len(raw) != 1 || *raw[0] != want {
		t.Errorf("got %+v, want %+v", raw, want)
	}
}

func TestCSVSourceCanonicalColumnWinsOverAlias(t *testing.T) {
	tests := []struct {
		name   string
		header string
		row    string
	}{
		{"alias first", "item,price,item_category,city,base_price,item_name", "Bread,99,Food,Pune,40,Rice"},
		{"canonical first", "item_name,base_price,city,item_category,price,item", "Rice,40,Pune,Food,99,Bread"},
	}

	want := models.RawRecord{Category: "Food", ItemName: "Rice", City: "Pune", BasePrice: "40"}
	for _, tt := range tests {
		p := writeFile(t, "prices.csv", tt.header+"\n"+tt.row+"\n")
		raw, err := NewCSVSource(p).Load(context.Background())
		if err != nil {
			t.Fatalf("%s: load: %v", tt.name, err)
		}
		if len(raw) != 1 || *raw[0] != want {
			t.Errorf("%s: got %+v, want %+v", tt.name, raw, want)
		}
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	p := writeFile(t, "prices.csv", "item_category,item_name,base_price\nFood,Rice,40\n")
	_, err := NewCSVSource(p).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "city") {
		t.Fatalf("expected missing city column error, got %v", err)
	}
}

func TestCSVSourceEmptyFile(t *testing.T) {
	p := writeFile(t, "prices.csv", "")
	if _, err := NewCSVSource(p).Load(context.Background()); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	if _, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCSVHistoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "out", "history.csv")

	h, err := NewCSVHistory(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	entries := []*models.HistoryEntry{
		{ID: "a", CreatedAt: ts, Category: "Food", ItemName: "Rice", City: "Pune", PredictedPrice: 51.5, Label: models.Fair},
		{ID: "b", CreatedAt: ts.Add(time.Minute), Category: "Food", ItemName: "Rice", City: "Atlantis", Error: "UnknownCategoryError"},
		{ID: "c", CreatedAt: ts.Add(2 * time.Minute), Category: "Dairy", ItemName: "Milk", City: "Pune", PredictedPrice: 19.99, Label: models.Underpriced},
	}
	for _, e := range entries {
		if err := h.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := h.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries: got %d, want 3", len(all))
	}
	if all[0].ID != "a" || all[0].PredictedPrice != 51.5 || all[0].Label != models.Fair || !all[0].CreatedAt.Equal(ts) {
		t.Errorf("entry 0: got %+v", all[0])
	}
	if all[1].Error != "UnknownCategoryError" || all[1].PredictedPrice != 0 {
		t.Errorf("entry 1: got %+v", all[1])
	}

	last, err := h.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last) != 2 || last[0].ID != "b" || last[1].ID != "c" {
		t.Errorf("limit 2: got %v", last)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCSVHistoryReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "history.csv")

	h, err := NewCSVHistory(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := h.Append(ctx, &models.HistoryEntry{ID: "a", CreatedAt: time.Now(), Category: "Food", ItemName: "Rice", City: "Pune", Label: models.Fair}); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = h.Close()

	h, err = NewCSVHistory(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h.Close()
	if err := h.Append(ctx, &models.HistoryEntry{ID: "b", CreatedAt: time.Now(), Category: "Food", ItemName: "Rice", City: "Pune", Label: models.Fair}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := h.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("entries: got %d, want 2 (header written twice?)", len(all))
	}
}
