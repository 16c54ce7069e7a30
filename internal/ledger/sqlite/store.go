// Package sqlite provides a SQLite-backed run ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/randlab/internal/ledger"
	"github.com/louisbranch/randlab/internal/ledger/sqlite/migrations"
	"github.com/louisbranch/randlab/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// DefaultListLimit bounds ListRuns when the caller passes no limit.
const DefaultListLimit = 50

// Store persists runs in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var (
	_ ledger.Store = (*Store)(nil)
)

// Open opens a SQLite ledger at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRun inserts run and returns its id. A zero CreatedAt is set to the
// current time.
func (s *Store) RecordRun(ctx context.Context, run ledger.Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if err := run.Validate(); err != nil {
		return 0, err
	}
	createdAt := run.CreatedAt.UTC()
	if run.CreatedAt.IsZero() {
		createdAt = s.now().UTC()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (
		   tool, seed, policy, alphabet, trials,
		   has_fit, statistic, p_value, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Tool,
		run.Seed,
		run.Policy,
		run.Alphabet,
		run.Trials,
		boolToInt(run.HasFit),
		run.Statistic,
		run.PValue,
		createdAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run id: %w", err)
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. An empty tool lists
// runs of every tool.
func (s *Store) ListRuns(ctx context.Context, tool string, limit int) ([]ledger.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	tool = strings.TrimSpace(tool)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, tool, seed, policy, alphabet, trials,
		        has_fit, statistic, p_value, created_at
		   FROM runs
		  WHERE ? = '' OR tool = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		tool, tool, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []ledger.Run
	for rows.Next() {
		var (
			run       ledger.Run
			hasFit    int64
			createdAt int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.Tool,
			&run.Seed,
			&run.Policy,
			&run.Alphabet,
			&run.Trials,
			&hasFit,
			&run.Statistic,
			&run.PValue,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.HasFit = hasFit != 0
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
