package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ethical-pricing/models"
)

// Assess predicts a price for (category, item, city) and labels it against the
// historical range of that exact combination. It does not modify the Store and is
// safe for concurrent use.
func (s *Store) Assess(category, item, city string) (models.Assessment, error) {
	c, err := lookup(s.categories, ColumnCategory, category)
	if err != nil {
		return models.Assessment{}, err
	}
	i, err := lookup(s.items, ColumnItemName, item)
	if err != nil {
		return models.Assessment{}, err
	}
	t, err := lookup(s.cities, ColumnCity, city)
	if err != nil {
		return models.Assessment{}, err
	}

	predicted := s.model.Predict([]float64{float64(c), float64(i), float64(t)})

	pr, ok := s.buckets[bucketKey{category: c, item: i, city: t}]
	if !ok {
		return models.Assessment{}, fmt.Errorf("%s / %s in %s: %w", category, item, city, ErrNoHistoricalData)
	}

	return models.Assessment{
		Category:       category,
		ItemName:       item,
		City:           city,
		PredictedPrice: RoundPrice(predicted),
		Label:          Classify(predicted, pr.min, pr.max),
		MinPrice:       pr.min,
		MaxPrice:       pr.max,
	}, nil
}

// Classify labels price against the inclusive range [min, max].
func Classify(price, min, max float64) models.Label {
	switch {
	case price < min:
		return models.Underpriced
	case price > max:
		return models.Overpriced
	default:
		return models.Fair
	}
}

// RoundPrice rounds half to even at two decimal places.
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
