package models

import "time"

// RawRecord holds one unprocessed row exactly as it was read from the dataset source.
type RawRecord struct {
	Category  string
	ItemName  string
	City      string
	BasePrice string
}

// Record is a cleaned historical transaction ready for model fitting.
type Record struct {
	Category  string  `db:"item_category" json:"item_category" yaml:"item_category"`
	ItemName  string  `db:"item_name" json:"item_name" yaml:"item_name"`
	City      string  `db:"city" json:"city" yaml:"city"`
	BasePrice float64 `db:"base_price" json:"base_price" yaml:"base_price"`
}

// Label is the fairness verdict for a predicted price.
type Label string

const (
	Underpriced Label = "Underpriced"
	Overpriced  Label = "Overpriced"
	Fair        Label = "Fair"
)

// Assessment is the outcome of a single price check.
// MinPrice and MaxPrice describe the historical range the label was derived from.
type Assessment struct {
	Category       string  `json:"category" yaml:"category"`
	ItemName       string  `json:"item_name" yaml:"item_name"`
	City           string  `json:"city" yaml:"city"`
	PredictedPrice float64 `json:"predicted_price" yaml:"predicted_price"`
	Label          Label   `json:"label" yaml:"label"`
	MinPrice       float64 `json:"min_price" yaml:"min_price"`
	MaxPrice       float64 `json:"max_price" yaml:"max_price"`
}

// HistoryEntry is one line of the append-only assessment log.
// Error is set instead of PredictedPrice/Label when the assessment failed.
type HistoryEntry struct {
	ID             string    `db:"id" json:"id" yaml:"id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
	Category       string    `db:"item_category" json:"category" yaml:"category"`
	ItemName       string    `db:"item_name" json:"item_name" yaml:"item_name"`
	City           string    `db:"city" json:"city" yaml:"city"`
	PredictedPrice float64   `db:"predicted_price" json:"predicted_price,omitempty" yaml:"predicted_price,omitempty"`
	Label          Label     `db:"label" json:"label,omitempty" yaml:"label,omitempty"`
	Error          string    `db:"error" json:"error,omitempty" yaml:"error,omitempty"`
}

// CityStats summarises base prices of one item in one city.
type CityStats struct {
	City     string  `json:"city" yaml:"city"`
	Count    int     `json:"count" yaml:"count"`
	MinPrice float64 `json:"min_price" yaml:"min_price"`
	MaxPrice float64 `json:"max_price" yaml:"max_price"`
	Mean     float64 `json:"mean" yaml:"mean"`
}

// Comparison holds per-city statistics for a single item.
type Comparison struct {
	Category string      `json:"category" yaml:"category"`
	ItemName string      `json:"item_name" yaml:"item_name"`
	Cities   []CityStats `json:"cities" yaml:"cities"`
}

// Catalog lists the known values of every categorical column.
type Catalog struct {
	Categories      []string            `json:"categories" yaml:"categories"`
	ItemsByCategory map[string][]string `json:"items_by_category" yaml:"items_by_category"`
	Cities          []string            `json:"cities" yaml:"cities"`
}

// Metrics reports holdout accuracy of a fitted model.
type Metrics struct {
	TrainRows int     `json:"train_rows" yaml:"train_rows"`
	TestRows  int     `json:"test_rows" yaml:"test_rows"`
	MAE       float64 `json:"mae" yaml:"mae"`
	R2        float64 `json:"r2" yaml:"r2"`
}
