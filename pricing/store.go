package pricing

import (
	"fmt"

	"ethical-pricing/models"
)

type bucketKey struct {
	category, item, city int
}

type priceRange struct {
	min, max float64
}

// Store is an immutable snapshot of the fitted encoders, the trained model and the
// historical price range of every (category, item, city) bucket.
type Store struct {
	categories *Encoder
	items      *Encoder
	cities     *Encoder
	model      Regressor
	buckets    map[bucketKey]priceRange
	rows       int
}

// Fit trains a random forest on records and returns the resulting Store.
func Fit(records []models.Record, opts ForestOptions) (*Store, error) {
	return FitWith(records, ForestTrainer(opts))
}

// FitWith builds the encoders from records and trains the model with train.
// Records are expected to be clean: deduplicated and free of missing fields.
func FitWith(records []models.Record, train Trainer) (*Store, error) {
	if distinctRecords(records) < 2 {
		return nil, ErrEmptyDataset
	}

	s, features, targets := encode(records)
	model, err := train(features, targets)
	if err != nil {
		return nil, fmt.Errorf("pricing: train model: %w", err)
	}
	s.model = model
	return s, nil
}

// encode fits the three encoders over records and returns a Store without a model,
// together with the encoded feature matrix and the price targets.
func encode(records []models.Record) (*Store, [][]float64, []float64) {
	cats := make([]string, len(records))
	items := make([]string, len(records))
	cities := make([]string, len(records))
	for i, r := range records {
		cats[i], items[i], cities[i] = r.Category, r.ItemName, r.City
	}

	s := &Store{
		categories: NewEncoder(cats),
		items:      NewEncoder(items),
		cities:     NewEncoder(cities),
		buckets:    make(map[bucketKey]priceRange),
		rows:       len(records),
	}

	features := make([][]float64, len(records))
	targets := make([]float64, len(records))
	for i, r := range records {
		k := s.key(r)
		features[i] = []float64{float64(k.category), float64(k.item), float64(k.city)}
		targets[i] = r.BasePrice

		pr, ok := s.buckets[k]
		if !ok {
			s.buckets[k] = priceRange{min: r.BasePrice, max: r.BasePrice}
			continue
		}
		if r.BasePrice < pr.min {
			pr.min = r.BasePrice
		}
		if r.BasePrice > pr.max {
			pr.max = r.BasePrice
		}
		s.buckets[k] = pr
	}
	return s, features, targets
}

// key encodes a record whose values are known to be in the encoders' domain.
func (s *Store) key(r models.Record) bucketKey {
	c, _ := s.categories.Encode(r.Category)
	i, _ := s.items.Encode(r.ItemName)
	t, _ := s.cities.Encode(r.City)
	return bucketKey{category: c, item: i, city: t}
}

// Encoder returns the fitted encoder of the named column, or nil for an unknown column.
func (s *Store) Encoder(column string) *Encoder {
	switch column {
	case ColumnCategory:
		return s.categories
	case ColumnItemName:
		return s.items
	case ColumnCity:
		return s.cities
	}
	return nil
}

// Rows returns the number of records the Store was fit on.
func (s *Store) Rows() int { return s.rows }

// Buckets returns the number of distinct (category, item, city) combinations.
func (s *Store) Buckets() int { return len(s.buckets) }

func distinctRecords(records []models.Record) int {
	seen := make(map[models.Record]struct{}, len(records))
	for _, r := range records {
		seen[r] = struct{}{}
		if len(seen) >= 2 {
			break
		}
	}
	return len(seen)
}
