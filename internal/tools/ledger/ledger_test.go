package ledger

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/randlab/internal/ledger"
	"github.com/louisbranch/randlab/internal/ledger/backend"
	"github.com/louisbranch/randlab/internal/ledger/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Limit != 20 || cfg.Tool != "" || cfg.Format != FormatTable || cfg.LedgerDriver != backend.DriverSQLite {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigOverride(t *testing.T) {
	t.Setenv("RANDLAB_LEDGER_PATH", "runs.db")
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-tool", "dump", "-limit", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.LedgerPath != "runs.db" || cfg.Tool != "dump" || cfg.Limit != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestRunRequiresPathAndLimit(t *testing.T) {
	if err := Run(context.Background(), Config{Limit: 1, Format: FormatTable}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing ledger path")
	}
	if err := Run(context.Background(), Config{LedgerPath: "x.db", Format: FormatTable}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if err := Run(context.Background(), Config{LedgerPath: "x.db", Limit: 1}, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func TestRunEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	var buf bytes.Buffer
	cfg := Config{LedgerPath: path, Limit: 5, Format: FormatTable}
	if err := Run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.String() != "No runs recorded.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRunListsFilteredRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	base := time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)
	runs := []ledger.Run{
		{Tool: "probability", Seed: 10, Policy: "rejection", Alphabet: 10, Trials: 100000, HasFit: true, PValue: 0.25, CreatedAt: base},
		{Tool: "dump", Seed: 11, Policy: "modulo", Alphabet: 256, Trials: 125000, CreatedAt: base.Add(time.Second)},
	}
	for _, run := range runs {
		if _, err := store.RecordRun(context.Background(), run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	var buf bytes.Buffer
	if err := Run(context.Background(), Config{LedgerPath: path, Tool: "probability", Limit: 10, Format: FormatTable}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "dump") {
		t.Fatalf("expected dump run to be filtered out: %q", out)
	}
	for _, want := range []string{"probability", "100,000", "0.2500", "2026-10-18T08:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	cfg := Config{LedgerPath: "x.db", Limit: 1, Format: "csv"}
	if err := Run(context.Background(), cfg, &bytes.Buffer{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRunReadsBadgerLedgerAsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger")
	store, err := backend.Open(backend.DriverBadger, path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	run := ledger.Run{
		Tool:      "distribution",
		Seed:      5,
		Policy:    "rejection",
		Alphabet:  10,
		Trials:    100,
		HasFit:    true,
		Statistic: 4.5,
		PValue:    0.875,
		CreatedAt: time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC),
	}
	if _, err := store.RecordRun(context.Background(), run); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	var buf bytes.Buffer
	cfg := Config{LedgerPath: path, LedgerDriver: backend.DriverBadger, Limit: 5, Format: FormatYAML}
	if err := Run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := `- id: 1
  tool: distribution
  seed: 5
  policy: rejection
  alphabet: 10
  trials: 100
  chi_squared: 4.5
  p_value: 0.875
  created_at: "2026-10-18T10:00:00Z"
`
	if buf.String() != want {
		t.Fatalf("yaml = %q, want %q", buf.String(), want)
	}
}

func TestWriteYAMLOmitsMissingFit(t *testing.T) {
	var buf bytes.Buffer
	run := ledger.Run{ID: 2, Tool: "dump", Seed: 1, Alphabet: 256, Trials: 8, CreatedAt: time.Unix(0, 0)}
	if err := WriteYAML(&buf, []ledger.Run{run}); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if strings.Contains(buf.String(), "p_value") || strings.Contains(buf.String(), "policy") {
		t.Fatalf("expected fit and empty policy to be omitted: %q", buf.String())
	}
}

func TestWriteTableMarksMissingFit(t *testing.T) {
	var buf bytes.Buffer
	run := ledger.Run{ID: 3, Tool: "interval", Seed: 7, Policy: "rejection", Alphabet: 10, Trials: 12000, CreatedAt: time.Unix(0, 0)}
	if err := WriteTable(&buf, []ledger.Run{run}); err != nil {
		t.Fatalf("write table: %v", err)
	}
	var row string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "interval") {
			row = line
		}
	}
	if row == "" {
		t.Fatalf("expected a row for the run in %q", buf.String())
	}
	for _, cell := range []string{" 3 ", " 7 ", " rejection ", " 12,000 ", " - ", " 1970-01-01T00:00:00Z "} {
		if !strings.Contains(row, cell) {
			t.Fatalf("expected cell %q in row %q", cell, row)
		}
	}
}

func TestRunMissingLedgerIsNotCreated(t *testing.T) {
	for _, driver := range backend.Drivers() {
		path := filepath.Join(t.TempDir(), "typo.db")
		var buf bytes.Buffer
		cfg := Config{LedgerPath: path, LedgerDriver: driver, Limit: 5, Format: FormatTable}
		if err := Run(context.Background(), cfg, &buf); !errors.Is(err, ErrLedgerNotFound) {
			t.Fatalf("%s: expected ErrLedgerNotFound, got %v", driver, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("%s: expected no output, got %q", driver, buf.String())
		}
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("%s: expected no ledger at %s, stat err = %v", driver, path, err)
		}
	}
}

func TestRunAcceptsFormatInAnyCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger")
	store, err := backend.Open(backend.DriverBadger, path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if _, err := store.RecordRun(context.Background(), ledger.Run{Tool: "dump", Seed: 4, Alphabet: 256, Trials: 8}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	var buf bytes.Buffer
	cfg := Config{LedgerPath: path, LedgerDriver: backend.DriverBadger, Limit: 5, Format: " YAML "}
	if err := Run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "- id: 1\n  tool: dump\n") {
		t.Fatalf("expected yaml output, got %q", buf.String())
	}
}

type closeErrorStore struct {
	ledger.Store
}

func (closeErrorStore) ListRuns(context.Context, string, int) ([]ledger.Run, error) {
	return nil, nil
}

func (closeErrorStore) Close() error {
	return errors.New("flush failed")
}

func TestRunReportsCloseError(t *testing.T) {
	openLedger = func(string, string) (ledger.Store, error) { return closeErrorStore{}, nil }
	t.Cleanup(func() { openLedger = backend.Open })

	cfg := Config{LedgerPath: t.TempDir(), LedgerDriver: backend.DriverBadger, Limit: 5, Format: FormatTable}
	err := Run(context.Background(), cfg, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "close ledger: flush failed") {
		t.Fatalf("expected close error, got %v", err)
	}
}
