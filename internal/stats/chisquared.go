// Package stats checks observed counts against a uniform expectation.
package stats

import (
	"errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrTooFewBuckets indicates fewer than two buckets, which leaves no degree
// of freedom.
var ErrTooFewBuckets = errors.New("at least two buckets are required")

// ErrNoObservations indicates counts that sum to zero.
var ErrNoObservations = errors.New("no observations")

// Result is the outcome of a chi-squared goodness-of-fit test.
type Result struct {
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64
}

// Rejects reports whether uniformity is rejected at significance alpha.
func (r Result) Rejects(alpha float64) bool {
	return r.PValue < alpha
}

// ChiSquaredUniform tests counts against equal expected frequencies.
func ChiSquaredUniform(counts []uint64) (Result, error) {
	if len(counts) < 2 {
		return Result{}, ErrTooFewBuckets
	}
	var total uint64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return Result{}, ErrNoObservations
	}

	expected := float64(total) / float64(len(counts))
	var statistic float64
	for _, c := range counts {
		d := float64(c) - expected
		statistic += d * d / expected
	}

	df := len(counts) - 1
	dist := distuv.ChiSquared{K: float64(df)}
	return Result{
		Statistic:        statistic,
		DegreesOfFreedom: df,
		PValue:           dist.Survival(statistic),
	}, nil
}
