package pricing

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ethical-pricing/models"
)

// Evaluate measures how well a forest trained with opts generalises. Records are
// shuffled with opts.Seed, testFraction of them are held out, and MAE and R² are
// computed on the holdout. Encoders are fit on all records so holdout rows never
// carry unknown labels.
func Evaluate(records []models.Record, opts ForestOptions, testFraction float64) (models.Metrics, error) {
	if distinctRecords(records) < 2 {
		return models.Metrics{}, ErrEmptyDataset
	}
	if testFraction <= 0 || testFraction >= 1 {
		return models.Metrics{}, fmt.Errorf("pricing: test fraction must be in (0, 1), got %v", testFraction)
	}

	_, features, targets := encode(records)
	n := len(records)
	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(opts.Seed)).Perm(n)
	testIdx, trainIdx := perm[:nTest], perm[nTest:]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, r := range trainIdx {
		trainX[i], trainY[i] = features[r], targets[r]
	}

	forest, err := TrainForest(trainX, trainY, opts)
	if err != nil {
		return models.Metrics{}, fmt.Errorf("pricing: evaluate: %w", err)
	}

	actual := make([]float64, len(testIdx))
	predicted := make([]float64, len(testIdx))
	for i, r := range testIdx {
		actual[i] = targets[r]
		predicted[i] = forest.Predict(features[r])
	}

	return models.Metrics{
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
		MAE:       meanAbsoluteError(actual, predicted),
		R2:        r2Score(actual, predicted),
	}, nil
}

func meanAbsoluteError(actual, predicted []float64) float64 {
	diffs := make([]float64, len(actual))
	floats.SubTo(diffs, actual, predicted)
	for i, d := range diffs {
		diffs[i] = math.Abs(d)
	}
	return stat.Mean(diffs, nil)
}

// r2Score is the coefficient of determination. A constant target scores 1 when
// predicted exactly and 0 otherwise.
func r2Score(actual, predicted []float64) float64 {
	if stat.PopVariance(actual, nil) == 0 {
		if floats.Equal(actual, predicted) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}
