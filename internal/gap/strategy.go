package gap

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyLastPosition = "last-position"
	StrategyPositionLog  = "position-log"
)

// ErrUnknownStrategy indicates a strategy name that is not supported.
var ErrUnknownStrategy = errors.New("unknown gap strategy")

// ErrCapacityExceeded indicates a position log received more occurrences
// than it was sized for.
var ErrCapacityExceeded = errors.New("position log capacity exceeded")

// Strategy records occurrences and exposes the resulting histogram.
//
// Observe must be called with strictly increasing indexes starting at 1.
type Strategy interface {
	Name() string
	Observe(symbol, index int) error
	Histogram() *Histogram
}

// Strategies returns the supported strategy names.
func Strategies() []string {
	return []string{StrategyLastPosition, StrategyPositionLog}
}

// NewStrategy builds the named strategy. capacity bounds the number of
// occurrences a position log may hold and is ignored by the recorder.
func NewStrategy(name string, alphabet, maxGap, capacity int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyLastPosition:
		r, err := NewRecorder(alphabet, maxGap)
		if err != nil {
			return nil, err
		}
		return r, nil
	case StrategyPositionLog:
		p, err := NewPositionLog(alphabet, maxGap, capacity)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Recorder keeps the last occurrence index of every symbol. It is the
// baseline strategy.
type Recorder struct {
	hist     *Histogram
	lastSeen []int
	index    int
}

// NewRecorder returns a recorder with every symbol unseen.
func NewRecorder(alphabet, maxGap int) (*Recorder, error) {
	hist, err := NewHistogram(alphabet, maxGap)
	if err != nil {
		return nil, err
	}
	return &Recorder{hist: hist, lastSeen: make([]int, alphabet)}, nil
}

// Name returns StrategyLastPosition.
func (r *Recorder) Name() string {
	return StrategyLastPosition
}

// Observe records symbol at trial index.
func (r *Recorder) Observe(symbol, index int) error {
	if err := checkObservation(symbol, index, r.index, len(r.lastSeen)); err != nil {
		return err
	}
	r.index = index
	if last := r.lastSeen[symbol]; last != 0 {
		r.hist.record(symbol, index-last)
	}
	r.lastSeen[symbol] = index
	return nil
}

// LastSeen returns the latest index of symbol, 0 when never seen.
func (r *Recorder) LastSeen(symbol int) int {
	if symbol < 0 || symbol >= len(r.lastSeen) {
		return 0
	}
	return r.lastSeen[symbol]
}

// Histogram returns the recorded gaps.
func (r *Recorder) Histogram() *Histogram {
	return r.hist
}

// PositionLog keeps every occurrence index of every symbol. Storage for
// all symbols shares one budget fixed at construction.
type PositionLog struct {
	hist      *Histogram
	positions [][]int
	capacity  int
	used      int
	index     int
}

// NewPositionLog returns a log able to hold capacity occurrences in total.
func NewPositionLog(alphabet, maxGap, capacity int) (*PositionLog, error) {
	hist, err := NewHistogram(alphabet, maxGap)
	if err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be non-negative, got %d", capacity)
	}
	return &PositionLog{
		hist:      hist,
		positions: make([][]int, alphabet),
		capacity:  capacity,
	}, nil
}

// Name returns StrategyPositionLog.
func (p *PositionLog) Name() string {
	return StrategyPositionLog
}

// Observe appends index to the occurrences of symbol.
func (p *PositionLog) Observe(symbol, index int) error {
	if err := checkObservation(symbol, index, p.index, len(p.positions)); err != nil {
		return err
	}
	if p.used >= p.capacity {
		return fmt.Errorf("%w: %d occurrences", ErrCapacityExceeded, p.capacity)
	}
	p.index = index
	p.used++
	seen := p.positions[symbol]
	if n := len(seen); n > 0 {
		p.hist.record(symbol, index-seen[n-1])
	}
	p.positions[symbol] = append(seen, index)
	return nil
}

// Positions returns the recorded occurrence indexes of symbol in order.
func (p *PositionLog) Positions(symbol int) []int {
	if symbol < 0 || symbol >= len(p.positions) {
		return nil
	}
	return append([]int(nil), p.positions[symbol]...)
}

// Histogram returns the recorded gaps.
func (p *PositionLog) Histogram() *Histogram {
	return p.hist
}

func checkObservation(symbol, index, previous, alphabet int) error {
	if symbol < 0 || symbol >= alphabet {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSymbolOutOfRange, symbol, alphabet)
	}
	if index <= previous {
		return fmt.Errorf("%w: %d after %d", ErrIndexNotIncreasing, index, previous)
	}
	return nil
}

// Feed observes symbols in order at trial indexes 1..len(symbols).
func Feed(s Strategy, symbols []int) error {
	for i, symbol := range symbols {
		if err := s.Observe(symbol, i+1); err != nil {
			return fmt.Errorf("observe trial %d: %w", i+1, err)
		}
	}
	return nil
}
