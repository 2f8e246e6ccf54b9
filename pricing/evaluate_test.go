package pricing

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"ethical-pricing/models"
)

func gridRecords() []models.Record {
	var out []models.Record
	for c := 0; c < 5; c++ {
		for i := 0; i < 4; i++ {
			base := float64(100*(c+1) + 10*i)
			for _, d := range []float64{-1, 1} {
				out = append(out, models.Record{
					Category:  "Food",
					ItemName:  fmt.Sprintf("item-%d", i),
					City:      fmt.Sprintf("city-%d", c),
					BasePrice: base + d,
				})
			}
		}
	}
	return out
}

func TestEvaluateHoldout(t *testing.T) {
	opts := ForestOptions{Trees: 30, MaxDepth: 10, MinSamplesLeaf: 1, Seed: 42, Workers: 2}
	m, err := Evaluate(gridRecords(), opts, 0.2)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if m.TestRows != 8 || m.TrainRows != 32 {
		t.Errorf("split: got %d/%d, want 32/8", m.TrainRows, m.TestRows)
	}
	if m.R2 < 0.5 {
		t.Errorf("R2 = %.3f; want > 0.5", m.R2)
	}
	if m.MAE > 50 {
		t.Errorf("MAE = %.2f; want < 50", m.MAE)
	}

	again, err := Evaluate(gridRecords(), opts, 0.2)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if again != m {
		t.Errorf("evaluation not reproducible: %+v vs %+v", m, again)
	}
}

func TestEvaluateTinyDataset(t *testing.T) {
	records := []models.Record{
		{Category: "Food", ItemName: "Rice", City: "Pune", BasePrice: 40},
		{Category: "Food", ItemName: "Rice", City: "Pune", BasePrice: 60},
	}
	m, err := Evaluate(records, DefaultForestOptions(), 0.9)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if m.TrainRows != 1 || m.TestRows != 1 {
		t.Errorf("split: got %d/%d, want 1/1", m.TrainRows, m.TestRows)
	}
	if m.MAE != 20 {
		t.Errorf("MAE: got %v, want 20", m.MAE)
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate(nil, DefaultForestOptions(), 0.2); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		if _, err := Evaluate(gridRecords(), DefaultForestOptions(), frac); err == nil {
			t.Errorf("fraction %v: expected error", frac)
		}
	}
}

func TestR2Score(t *testing.T) {
	if got := r2Score([]float64{1, 2, 3}, []float64{1, 2, 3}); got != 1 {
		t.Errorf("perfect fit: got %v, want 1", got)
	}
	if got := r2Score([]float64{5, 5}, []float64{4, 6}); got != 0 {
		t.Errorf("constant target: got %v, want 0", got)
	}
}

func TestR2ScoreAgainstMean(t *testing.T) {
	// Predicting the mean everywhere scores 0; a single holdout row is constant.
	if got := r2Score([]float64{1, 2, 3}, []float64{2, 2, 2}); math.Abs(got) > 1e-12 {
		t.Errorf("mean prediction: got %v, want 0", got)
	}
	if got := r2Score([]float64{7}, []float64{7}); got != 1 {
		t.Errorf("single exact row: got %v, want 1", got)
	}
}

func TestMeanAbsoluteError(t *testing.T) {
	got := meanAbsoluteError([]float64{10, 20, 30}, []float64{12, 17, 30})
	if math.Abs(got-5.0/3) > 1e-12 {
		t.Errorf("MAE: got %v, want %v", got, 5.0/3)
	}
}
