package engine

import "math/rand"

// Random provides the randomness the engine needs. It can be replaced by a
// scripted implementation in tests.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int
}

// SeededRandom implements Random on top of math/rand with a fixed seed.
type SeededRandom struct {
	r *rand.Rand
}

// NewRandom creates a seeded Random. The same seed always yields the same
// sequence, which keeps sessions reproducible.
func NewRandom(seed int64) *SeededRandom {
	return &SeededRandom{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n). Returns 0 when n <= 0.
func (s *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}
