package shared

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Sampler is the source of randomness for recipe composition, product
// synthesis and store fallbacks. Tests inject a seeded one.
type Sampler interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedSampler serializes access to a *rand.Rand so a single sampler can be
// shared by concurrent requests.
type lockedSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a deterministic sampler for the given seed. A zero seed
// is replaced by the current time.
func NewSampler(seed uint64) Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSampler) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSampler) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *lockedSampler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// Uniform draws a float in [lo, hi).
func Uniform(s Sampler, lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// UniformInt draws an int in [lo, hi].
func UniformInt(s Sampler, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.IntN(hi-lo+1)
}
