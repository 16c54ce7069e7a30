package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/randlab/internal/ledger"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestRecordAndListRuns(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

	first := ledger.Run{
		Tool:      "probability",
		Seed:      42,
		Policy:    "rejection",
		Alphabet:  10,
		Trials:    100000,
		HasFit:    true,
		Statistic: 7.5,
		PValue:    0.58,
		CreatedAt: base,
	}
	second := ledger.Run{
		Tool:      "interval",
		Seed:      7,
		Policy:    "modulo",
		Alphabet:  10,
		Trials:    100000,
		CreatedAt: base.Add(time.Minute),
	}
	id, err := store.RecordRun(ctx, first)
	if err != nil {
		t.Fatalf("record first run: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if _, err := store.RecordRun(ctx, second); err != nil {
		t.Fatalf("record second run: %v", err)
	}

	all, err := store.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	if all[0].Tool != "interval" || all[1].Tool != "probability" {
		t.Fatalf("expected newest first, got %q then %q", all[0].Tool, all[1].Tool)
	}

	got := all[1]
	if got.ID != id || got.Seed != 42 || got.Policy != "rejection" || got.Alphabet != 10 || got.Trials != 100000 {
		t.Fatalf("unexpected run %+v", got)
	}
	if !got.HasFit || got.Statistic != 7.5 || got.PValue != 0.58 {
		t.Fatalf("unexpected fit fields %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, base)
	}
	if all[0].HasFit {
		t.Fatal("expected run without fit to keep HasFit false")
	}
}

func TestListRunsFiltersByTool(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for _, tool := range []string{"dump", "interval", "dump"} {
		if _, err := store.RecordRun(ctx, ledger.Run{Tool: tool, Alphabet: 256, Trials: 10}); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}
	runs, err := store.ListRuns(ctx, "dump", 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 dump runs, got %d", len(runs))
	}
	runs, err = store.ListRuns(ctx, "", 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected limit to apply, got %d runs", len(runs))
	}
}

func TestRecordRunSetsCreatedAt(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fixed := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	if _, err := store.RecordRun(context.Background(), ledger.Run{Tool: "distribution", Alphabet: 10}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), "distribution", 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || !runs[0].CreatedAt.Equal(fixed) {
		t.Fatalf("expected created_at %v, got %+v", fixed, runs)
	}
}

func TestRecordRunRejectsInvalidRun(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.RecordRun(context.Background(), ledger.Run{Alphabet: 10})
	if !errors.Is(err, ledger.ErrInvalidRun) {
		t.Fatalf("expected ErrInvalidRun, got %v", err)
	}
}

func TestRecordRunHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.RecordRun(ctx, ledger.Run{Tool: "dump", Alphabet: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.RecordRun(context.Background(), ledger.Run{Tool: "dump", Alphabet: 256}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	runs, err := reopened.ListRuns(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after reopen, got %d", len(runs))
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.RecordRun(context.Background(), ledger.Run{Tool: "dump", Alphabet: 1}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
