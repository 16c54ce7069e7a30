// Package gap tallies the distance between consecutive occurrences of each
// symbol in a sampled sequence.
//
// Trial indexes start at 1. For every symbol the recorder remembers the
// index of its latest occurrence; each later occurrence records the gap
// i - k into the symbol's histogram when the gap is below the tracked
// maximum. Larger gaps are dropped, never clamped, and a first occurrence
// never records anything.
package gap

import (
	"errors"
	"fmt"
)

// ErrInvalidAlphabet indicates a non-positive alphabet size.
var ErrInvalidAlphabet = errors.New("alphabet size must be positive")

// ErrInvalidMaxGap indicates a tracked maximum too small to hold any gap.
var ErrInvalidMaxGap = errors.New("max gap must be at least 2")

// ErrSymbolOutOfRange indicates a symbol outside [0, alphabet).
var ErrSymbolOutOfRange = errors.New("symbol out of range")

// ErrIndexNotIncreasing indicates a trial index that does not follow the
// previous one.
var ErrIndexNotIncreasing = errors.New("trial index must be positive and increasing")

// Histogram holds per-symbol gap counts. Bucket g of symbol s counts the
// gaps of exactly g trials, for 1 <= g < MaxGap.
type Histogram struct {
	maxGap int
	counts [][]uint64
}

// NewHistogram returns an empty histogram for alphabet symbols tracking
// gaps below maxGap.
func NewHistogram(alphabet, maxGap int) (*Histogram, error) {
	if alphabet < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAlphabet, alphabet)
	}
	if maxGap < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxGap, maxGap)
	}
	counts := make([][]uint64, alphabet)
	for i := range counts {
		counts[i] = make([]uint64, maxGap)
	}
	return &Histogram{maxGap: maxGap, counts: counts}, nil
}

// Symbols returns the alphabet size.
func (h *Histogram) Symbols() int {
	return len(h.counts)
}

// MaxGap returns the exclusive upper bound of tracked gaps.
func (h *Histogram) MaxGap() int {
	return h.maxGap
}

// Count returns how many gaps of exactly gap trials were recorded for
// symbol. Out-of-range arguments count zero.
func (h *Histogram) Count(symbol, gap int) uint64 {
	if symbol < 0 || symbol >= len(h.counts) || gap < 1 || gap >= h.maxGap {
		return 0
	}
	return h.counts[symbol][gap]
}

// Total returns the number of gaps recorded for symbol.
func (h *Histogram) Total(symbol int) uint64 {
	if symbol < 0 || symbol >= len(h.counts) {
		return 0
	}
	var total uint64
	for _, c := range h.counts[symbol] {
		total += c
	}
	return total
}

// Entries returns the non-empty buckets of symbol keyed by gap.
func (h *Histogram) Entries(symbol int) map[int]uint64 {
	entries := make(map[int]uint64)
	if symbol < 0 || symbol >= len(h.counts) {
		return entries
	}
	for g, c := range h.counts[symbol] {
		if c > 0 {
			entries[g] = c
		}
	}
	return entries
}

// record counts gap for symbol, dropping gaps at or above maxGap.
func (h *Histogram) record(symbol, gap int) {
	if gap < h.maxGap {
		h.counts[symbol][gap]++
	}
}
