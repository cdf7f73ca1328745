// Package boosts owns the consumable boost counters. Slots consume
// charges mid-spin and the shop adds them on purchase, so every
// read-modify-write of the persisted counter map goes through one
// mutex here; nothing else touches the boosts key.
package boosts

import (
	"sync"

	"github.com/driftgames/arcade/pkg/storage"
	"go.uber.org/zap"
)

// Service serializes all mutations of the boost counter map. Construct
// exactly one per store and share it between every component that
// touches boosts.
type Service struct {
	store storage.Store
	log   *zap.Logger
	mu    sync.Mutex
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New creates a boost counter service over the store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count returns the remaining charges for a boost.
func (s *Service) Count(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()[key]
}

// Add grants charges to a boost counter.
func (s *Service) Add(key string, charges int64) {
	if charges <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := s.loadLocked()
	counters[key] += charges
	s.persistLocked(counters)
}

// Consume spends one charge of a boost. Returns false, leaving the
// counters untouched, when none remain.
func (s *Service) Consume(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := s.loadLocked()
	if counters[key] <= 0 {
		return false
	}
	counters[key]--
	s.persistLocked(counters)
	return true
}

func (s *Service) loadLocked() map[string]int64 {
	return storage.GetJSON(s.store, storage.KeyBoosts, map[string]int64{})
}

func (s *Service) persistLocked(counters map[string]int64) {
	if err := storage.SetJSON(s.store, storage.KeyBoosts, counters); err != nil {
		s.log.Warn("failed to persist boost counters", zap.Error(err))
	}
}
