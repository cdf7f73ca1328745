// Package rng isolates randomness behind a small interface so game
// engines can be driven by scripted sequences in tests.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Generator produces the random draws the game engines need.
type Generator interface {
	// UniformInt returns a uniformly distributed integer in [min, max],
	// both ends inclusive. An inverted range collapses to min.
	UniformInt(min, max int) int
	// Float64 returns a uniformly distributed float in [0, 1).
	Float64() float64
	// Shuffle randomizes n elements through the swap callback.
	Shuffle(n int, swap func(i, j int))
}

// Source is the math/rand-backed Generator. Safe for concurrent use.
type Source struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// New returns a time-seeded source.
func New() *Source {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic source for tests.
func NewSeeded(seed int64) *Source {
	return &Source{rand: rand.New(rand.NewSource(seed))}
}

func (s *Source) UniformInt(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rand.Intn(max-min+1)
}

func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rand.Shuffle(n, swap)
}
