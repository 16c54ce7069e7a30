package random

import (
	"errors"
	"math"
)

// Normal draws approximately normal values with the polar form of the
// Box-Muller transform. Each accepted point yields two values; the second
// is kept on the generator and returned by the following call.
//
// A Normal is not safe for concurrent use.
type Normal struct {
	src    Source
	mean   float64
	stddev float64

	spare    float64
	hasSpare bool
}

// ErrInvalidStddev indicates a negative or non-finite standard deviation.
var ErrInvalidStddev = errors.New("standard deviation must be a finite non-negative number")

// NewNormal returns a generator for values with the given mean and
// standard deviation.
func NewNormal(src Source, mean, stddev float64) (*Normal, error) {
	if src == nil {
		return nil, errors.New("source is required")
	}
	if stddev < 0 || math.IsNaN(stddev) || math.IsInf(stddev, 0) {
		return nil, ErrInvalidStddev
	}
	return &Normal{src: src, mean: mean, stddev: stddev}, nil
}

// Next returns the next value.
func (n *Normal) Next() float64 {
	if n.hasSpare {
		n.hasSpare = false
		return n.mean + n.stddev*n.spare
	}

	var x, y, r float64
	for {
		x = 2*unit(n.src) - 1
		y = 2*unit(n.src) - 1
		r = x*x + y*y
		if r != 0 && r <= 1 {
			break
		}
	}

	d := math.Sqrt(-2 * math.Log(r) / r)
	n.spare = y * d
	n.hasSpare = true
	return n.mean + n.stddev*x*d
}
