// Package random provides the seeded generators behind every sampling tool.
//
// Seeds come from crypto/rand unless the caller pins one, so a run can be
// replayed by passing the seed it printed. Draws come from a Source, the
// same shape math/rand uses, reduced to 31-bit values before any range
// reduction happens.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	return readSeed(crand.Reader)
}

// ResolveSeed returns seed unchanged when it is non-zero and a fresh
// crypto seed otherwise.
func ResolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	return NewSeed()
}

func readSeed(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
