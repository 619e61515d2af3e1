package entanglement

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source supplies the random draws of the physics model.
// Implementations must be safe for concurrent use.
type Source interface {
	// Coincidence returns true with probability p.
	Coincidence(p float64) bool
	// Gaussian draws from N(mean, stddev²).
	Gaussian(mean, stddev float64) float64
}

type distSource struct {
	mu  sync.Mutex
	src rand.Source
}

// NewSource returns a seeded Source backed by gonum distributions.
func NewSource(seed uint64) Source {
	return &distSource{src: rand.NewSource(seed)}
}

// NewTimeSeededSource returns a Source seeded from the wall clock.
func NewTimeSeededSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

func (s *distSource) Coincidence(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

func (s *distSource) Gaussian(mean, stddev float64) float64 {
	if stddev == 0 {
		return mean
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: s.src}.Rand()
}
