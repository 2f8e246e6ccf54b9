package pricing

import "testing"

func stepData() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for i := 0; i < 10; i++ {
		x = append(x, []float64{float64(i), 0, 0})
		if i < 5 {
			y = append(y, 10)
		} else {
			y = append(y, 100)
		}
	}
	return x, y
}

func TestForestFitsStep(t *testing.T) {
	x, y := stepData()
	f, err := TrainForest(x, y, ForestOptions{Trees: 20, MaxDepth: 5, MinSamplesLeaf: 1, Seed: 7, Workers: 2})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if f.Size() != 20 {
		t.Errorf("Size: got %d, want 20", f.Size())
	}
	if got := f.Predict([]float64{0, 0, 0}); got > 30 {
		t.Errorf("Predict(0) = %.2f; want close to 10", got)
	}
	if got := f.Predict([]float64{9, 0, 0}); got < 80 {
		t.Errorf("Predict(9) = %.2f; want close to 100", got)
	}
}

func TestForestDeterministicAcrossWorkers(t *testing.T) {
	x, y := stepData()
	opts := ForestOptions{Trees: 25, MaxDepth: 4, MinSamplesLeaf: 1, Seed: 42}

	opts.Workers = 1
	a, err := TrainForest(x, y, opts)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	opts.Workers = 8
	b, err := TrainForest(x, y, opts)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	for _, row := range x {
		if pa, pb := a.Predict(row), b.Predict(row); pa != pb {
			t.Errorf("Predict(%v): %v with 1 worker, %v with 8", row, pa, pb)
		}
	}
}

func TestForestConstantTarget(t *testing.T) {
	x := [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}
	y := []float64{40, 40, 40}
	f, err := TrainForest(x, y, DefaultForestOptions())
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if got := f.Predict([]float64{5, 5, 5}); got != 40 {
		t.Errorf("Predict = %v; want 40", got)
	}
}

func TestForestRejectsBadInput(t *testing.T) {
	opts := DefaultForestOptions()
	if _, err := TrainForest(nil, nil, opts); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := TrainForest([][]float64{{1}}, []float64{1, 2}, opts); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	opts.Trees = 0
	if _, err := TrainForest([][]float64{{1}}, []float64{1}, opts); err == nil {
		t.Error("expected error for zero trees")
	}
}
