// Package badger provides a BadgerDB-backed run ledger. Runs are stored as
// CBOR records under big-endian id keys.
package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/louisbranch/randlab/internal/ledger"
)

// DefaultListLimit bounds ListRuns when the caller passes no limit.
const DefaultListLimit = 50

var (
	runPrefix   = []byte("run/")
	sequenceKey = []byte("seq/run")
)

// record is the stored form of a run. The id lives in the key.
type record struct {
	Tool      string  `cbor:"1,keyasint"`
	Seed      int64   `cbor:"2,keyasint"`
	Policy    string  `cbor:"3,keyasint"`
	Alphabet  int     `cbor:"4,keyasint"`
	Trials    int     `cbor:"5,keyasint"`
	HasFit    bool    `cbor:"6,keyasint"`
	Statistic float64 `cbor:"7,keyasint"`
	PValue    float64 `cbor:"8,keyasint"`
	CreatedAt int64   `cbor:"9,keyasint"`
}

// Store persists runs in BadgerDB.
type Store struct {
	db  *dgbadger.DB
	seq *dgbadger.Sequence
	now func() time.Time
}

var _ ledger.Store = (*Store)(nil)

// Open opens a Badger ledger in directory path, creating it if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create ledger directory %s: %w", path, err)
	}
	opts := dgbadger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := dgbadger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	seq, err := db.GetSequence(sequenceKey, 1)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open run sequence: %w", err)
	}
	return &Store{db: db, seq: seq, now: time.Now}, nil
}

// Close releases the id sequence and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// RecordRun stores run and returns its id. A zero CreatedAt is set to the
// current time.
func (s *Store) RecordRun(ctx context.Context, run ledger.Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if err := run.Validate(); err != nil {
		return 0, err
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	next, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next run id: %w", err)
	}
	// Sequences start at zero; ids start at one.
	id := int64(next) + 1

	data, err := cbor.Marshal(record{
		Tool:      run.Tool,
		Seed:      run.Seed,
		Policy:    run.Policy,
		Alphabet:  run.Alphabet,
		Trials:    run.Trials,
		HasFit:    run.HasFit,
		Statistic: run.Statistic,
		PValue:    run.PValue,
		CreatedAt: createdAt.UTC().UnixMilli(),
	})
	if err != nil {
		return 0, fmt.Errorf("encode run: %w", err)
	}
	if err := s.db.Update(func(txn *dgbadger.Txn) error {
		return txn.Set(runKey(id), data)
	}); err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. An empty tool lists
// runs of every tool.
func (s *Store) ListRuns(ctx context.Context, tool string, limit int) ([]ledger.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	tool = strings.TrimSpace(tool)

	var runs []ledger.Run
	err := s.db.View(func(txn *dgbadger.Txn) error {
		opts := dgbadger.DefaultIteratorOptions
		opts.Prefix = runPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(runPrefix); it.ValidForPrefix(runPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := int64(binary.BigEndian.Uint64(item.Key()[len(runPrefix):]))
			var rec record
			if err := item.Value(func(val []byte) error {
				return cbor.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode run %d: %w", id, err)
			}
			if tool != "" && rec.Tool != tool {
				continue
			}
			runs = append(runs, ledger.Run{
				ID:        id,
				Tool:      rec.Tool,
				Seed:      rec.Seed,
				Policy:    rec.Policy,
				Alphabet:  rec.Alphabet,
				Trials:    rec.Trials,
				HasFit:    rec.HasFit,
				Statistic: rec.Statistic,
				PValue:    rec.PValue,
				CreatedAt: time.UnixMilli(rec.CreatedAt).UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	ledger.SortNewestFirst(runs)
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func runKey(id int64) []byte {
	key := make([]byte, len(runPrefix)+8)
	copy(key, runPrefix)
	binary.BigEndian.PutUint64(key[len(runPrefix):], uint64(id))
	return key
}
