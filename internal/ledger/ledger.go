// Package ledger defines the record of a sampling run kept so a report can
// be reproduced from its seed.
package ledger

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"
)

// ErrInvalidRun indicates a run record missing required fields.
var ErrInvalidRun = errors.New("invalid run record")

// Run describes one completed tool run. HasFit is false when the run did
// not test goodness of fit, and Statistic and PValue are then zero.
type Run struct {
	ID        int64
	Tool      string
	Seed      int64
	Policy    string
	Alphabet  int
	Trials    int
	HasFit    bool
	Statistic float64
	PValue    float64
	CreatedAt time.Time
}

// Validate checks the fields every run must carry.
func (r Run) Validate() error {
	switch {
	case r.Tool == "":
		return errors.Join(ErrInvalidRun, errors.New("tool is required"))
	case r.Alphabet < 1:
		return errors.Join(ErrInvalidRun, errors.New("alphabet must be positive"))
	case r.Trials < 0:
		return errors.Join(ErrInvalidRun, errors.New("trials must be non-negative"))
	}
	return nil
}

// Recorder persists runs.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) (int64, error)
}

// Lister reads recorded runs, newest first.
type Lister interface {
	ListRuns(ctx context.Context, tool string, limit int) ([]Run, error)
}

// Store is a ledger backend.
type Store interface {
	Recorder
	Lister
	io.Closer
}

// SortNewestFirst orders runs by creation time, newest first, breaking ties
// by descending id.
func SortNewestFirst(runs []Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
}
