package market

import (
	"hash/fnv"
	"math/rand"
)

// stream is a seeded uniform draw source. All randomness for one
// asset in one time bucket comes from a single stream, drawn in a
// fixed order, so a sequence can be replayed exactly by re-seeding.
type stream struct {
	r *rand.Rand
}

func newStream(seed int64) *stream {
	return &stream{r: rand.New(rand.NewSource(seed))}
}

// draw returns a uniform value in [0, 1).
func (s *stream) draw() float64 {
	return s.r.Float64()
}

// coin returns true with probability 1/2.
func (s *stream) coin() bool {
	return s.r.Float64() < 0.5
}

// symbolSeed hashes a symbol with FNV-1a so seeds are stable across
// processes and restarts.
func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
