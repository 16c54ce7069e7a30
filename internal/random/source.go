package random

import "math/rand"

// RangeSize is the number of distinct values a single draw can take.
// Draws fall in [0, RangeSize).
const RangeSize = 1 << 31

// MaxValue is the largest value a single draw can produce.
const MaxValue = RangeSize - 1

// Source is a source of uniformly distributed int64 values in [0, 2⁶³).
// *rand.Rand and the value returned by rand.NewSource both satisfy it.
type Source interface {
	Int63() int64
}

// NewSource returns a math/rand source seeded with seed.
func NewSource(seed int64) Source {
	return rand.NewSource(seed)
}

// draw takes the top 31 bits of src.Int63.
func draw(src Source) uint32 {
	return uint32(src.Int63() >> 32)
}

// unit scales a draw into [0, 1], both ends included.
func unit(src Source) float64 {
	return float64(draw(src)) / MaxValue
}
