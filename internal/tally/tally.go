// Package tally counts how often each symbol of a bounded alphabet occurs.
package tally

import (
	"errors"
	"fmt"
	"strings"
)

// Counter names accepted by NewCounter.
const (
	CounterArray = "array"
	CounterMap   = "map"
)

// ErrUnknownCounter indicates a counter name that is not supported.
var ErrUnknownCounter = errors.New("unknown counter")

// ErrInvalidAlphabet indicates a non-positive alphabet size.
var ErrInvalidAlphabet = errors.New("alphabet size must be positive")

// Counter accumulates per-symbol occurrence counts.
type Counter interface {
	Name() string
	Add(symbol int)
	Count(symbol int) uint64
	Total() uint64
}

// Counters returns the supported counter names.
func Counters() []string {
	return []string{CounterArray, CounterMap}
}

// NewCounter builds the named counter for alphabet symbols.
func NewCounter(name string, alphabet int) (Counter, error) {
	if alphabet < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAlphabet, alphabet)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CounterArray:
		return NewArrayCounter(alphabet), nil
	case CounterMap:
		return NewMapCounter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCounter, name)
	}
}

// Counts returns the counts of symbols 0..alphabet-1 in order.
func Counts(c Counter, alphabet int) []uint64 {
	out := make([]uint64, alphabet)
	for i := range out {
		out[i] = c.Count(i)
	}
	return out
}

// ArrayCounter indexes counts by symbol. Adding a symbol outside the
// alphabet panics.
type ArrayCounter struct {
	counts []uint64
	total  uint64
}

// NewArrayCounter returns a counter for alphabet symbols.
func NewArrayCounter(alphabet int) *ArrayCounter {
	return &ArrayCounter{counts: make([]uint64, alphabet)}
}

// Name returns CounterArray.
func (a *ArrayCounter) Name() string { return CounterArray }

// Add counts one occurrence of symbol.
func (a *ArrayCounter) Add(symbol int) {
	a.counts[symbol]++
	a.total++
}

// Count returns the occurrences of symbol.
func (a *ArrayCounter) Count(symbol int) uint64 {
	if symbol < 0 || symbol >= len(a.counts) {
		return 0
	}
	return a.counts[symbol]
}

// Total returns the number of occurrences added.
func (a *ArrayCounter) Total() uint64 { return a.total }

// MapCounter keys counts by symbol and only allocates for symbols seen.
type MapCounter struct {
	counts map[int]uint64
	total  uint64
}

// NewMapCounter returns an empty map counter.
func NewMapCounter() *MapCounter {
	return &MapCounter{counts: make(map[int]uint64)}
}

// Name returns CounterMap.
func (m *MapCounter) Name() string { return CounterMap }

// Add counts one occurrence of symbol.
func (m *MapCounter) Add(symbol int) {
	m.counts[symbol]++
	m.total++
}

// Count returns the occurrences of symbol.
func (m *MapCounter) Count(symbol int) uint64 { return m.counts[symbol] }

// Total returns the number of occurrences added.
func (m *MapCounter) Total() uint64 { return m.total }
