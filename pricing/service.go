package pricing

import (
	"sync"
	"sync/atomic"

	"ethical-pricing/models"
)

// Service serves assessments from the current Store snapshot and supports swapping
// in a freshly fitted snapshot while requests are in flight.
type Service struct {
	current atomic.Pointer[Store]
	train   Trainer
	mu      sync.Mutex // serialises Reload
}

// NewService fits the initial snapshot from records.
func NewService(records []models.Record, opts ForestOptions) (*Service, error) {
	return NewServiceWith(records, ForestTrainer(opts))
}

// NewServiceWith is NewService with a custom Trainer.
func NewServiceWith(records []models.Record, train Trainer) (*Service, error) {
	st, err := FitWith(records, train)
	if err != nil {
		return nil, err
	}
	s := &Service{train: train}
	s.current.Store(st)
	return s, nil
}

// Assess runs against a single snapshot, so a concurrent Reload never yields a
// mix of old and new encoders.
func (s *Service) Assess(category, item, city string) (models.Assessment, error) {
	return s.current.Load().Assess(category, item, city)
}

// Reload fits a new snapshot from records and makes it current. On error the
// previous snapshot stays in place.
func (s *Service) Reload(records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := FitWith(records, s.train)
	if err != nil {
		return err
	}
	s.current.Store(st)
	return nil
}

// Snapshot returns the Store currently in use.
func (s *Service) Snapshot() *Store {
	return s.current.Load()
}
