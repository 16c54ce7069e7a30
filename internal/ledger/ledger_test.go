package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		ok   bool
	}{
		{"valid", Run{Tool: "dump", Alphabet: 256, Trials: 125000}, true},
		{"missing tool", Run{Alphabet: 10}, false},
		{"empty alphabet", Run{Tool: "dump"}, false},
		{"negative trials", Run{Tool: "dump", Alphabet: 1, Trials: -1}, false},
	}
	for _, tt := range tests {
		err := tt.run.Validate()
		if tt.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRun) {
			t.Fatalf("%s: expected ErrInvalidRun, got %v", tt.name, err)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(time.Hour)},
		{ID: 2, CreatedAt: base},
	}
	SortNewestFirst(runs)
	got := []int64{runs[0].ID, runs[1].ID, runs[2].ID}
	want := []int64{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
