package random

import (
	"errors"
	"fmt"
	"strings"
)

// Policy selects how a draw is reduced onto [0, n).
type Policy string

const (
	// PolicyRejection discards draws at or above the largest multiple of n
	// that fits in RangeSize and divides the rest into n equal buckets.
	PolicyRejection Policy = "rejection"
	// PolicyModulo reduces every draw with draw % n. It is biased whenever n
	// does not divide RangeSize.
	PolicyModulo Policy = "modulo"
)

// ErrUnknownPolicy indicates a policy name that is not supported.
var ErrUnknownPolicy = errors.New("unknown sampling policy")

// ErrInvalidAlphabet indicates an alphabet size outside [1, RangeSize].
var ErrInvalidAlphabet = errors.New("alphabet size must be between 1 and 2^31")

// ParsePolicy resolves a policy name. An empty name selects PolicyRejection.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyRejection:
		return PolicyRejection, nil
	case PolicyModulo:
		return PolicyModulo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Sampler draws symbols uniformly from [0, n).
//
// A Sampler is not safe for concurrent use.
type Sampler struct {
	src    Source
	n      uint32
	policy Policy
	bucket uint32
	limit  uint32
	draws  int
}

// NewSampler returns a sampler over an alphabet of n symbols.
func NewSampler(src Source, n int, policy Policy) (*Sampler, error) {
	if src == nil {
		return nil, errors.New("source is required")
	}
	if n < 1 || int64(n) > RangeSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAlphabet, n)
	}
	if policy != PolicyRejection && policy != PolicyModulo {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	bucket := uint32(int64(RangeSize) / int64(n))
	return &Sampler{
		src:    src,
		n:      uint32(n),
		policy: policy,
		bucket: bucket,
		limit:  uint32(uint64(bucket) * uint64(n)),
	}, nil
}

// Size returns the alphabet size.
func (s *Sampler) Size() int {
	return int(s.n)
}

// Policy returns the reduction policy in use.
func (s *Sampler) Policy() Policy {
	return s.policy
}

// Draws returns how many raw draws the sampler has consumed. Under
// PolicyRejection it exceeds the number of Next calls by the number of
// rejected draws.
func (s *Sampler) Draws() int {
	return s.draws
}

// Next returns the next symbol.
func (s *Sampler) Next() int {
	if s.policy == PolicyModulo {
		s.draws++
		return int(draw(s.src) % s.n)
	}
	for {
		v := draw(s.src)
		s.draws++
		if v < s.limit {
			return int(v / s.bucket)
		}
	}
}
