// Package session holds the per-run state shared by the sampling tools: the
// resolved seed, the reduction policy and the seeded source.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/louisbranch/randlab/internal/ledger"
	"github.com/louisbranch/randlab/internal/ledger/backend"
	"github.com/louisbranch/randlab/internal/platform/telemetry/metrics"
	"github.com/louisbranch/randlab/internal/random"
	"golang.org/x/text/message"
)

var openLedger = backend.Open

// Session is one seeded sampling run.
type Session struct {
	Seed    int64
	Policy  random.Policy
	Source  random.Source
	Started time.Time
}

// New resolves seed and policy. A zero seed is replaced by a fresh crypto
// seed, which is logged so the run can be replayed.
func New(seed int64, policy string) (*Session, error) {
	p, err := random.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	resolved, err := random.ResolveSeed(seed)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		log.Printf("using seed: %d", resolved)
	}
	return &Session{
		Seed:    resolved,
		Policy:  p,
		Source:  random.NewSource(resolved),
		Started: time.Now(),
	}, nil
}

// Sampler returns a sampler over n symbols drawing from the session source.
func (s *Session) Sampler(n int) (*random.Sampler, error) {
	return random.NewSampler(s.Source, n, s.Policy)
}

// WriteHeader prints the line identifying the run. The seed is printed
// without digit grouping so it can be passed back to -seed.
func (s *Session) WriteHeader(w io.Writer, p *message.Printer, trials int) error {
	_, err := fmt.Fprintf(w, "Seed: %d | Policy: %s | Trials: %s\n", s.Seed, s.Policy, p.Sprintf("%d", trials))
	return err
}

// Publish fills run with the session seed and policy, then records it in the
// ledger and writes run metrics as configured by o. draws is the number of
// raw generator outputs the run consumed.
func (s *Session) Publish(ctx context.Context, o Outputs, run ledger.Run, draws int) error {
	run.Seed = s.Seed
	run.Policy = string(s.Policy)
	if err := Record(ctx, o.LedgerDriver, o.LedgerPath, run); err != nil {
		return err
	}
	if o.MetricsPath == "" {
		return nil
	}
	m := metrics.New()
	if err := m.Observe(metrics.Summary{
		Tool:     run.Tool,
		Trials:   run.Trials,
		Draws:    draws,
		HasFit:   run.HasFit,
		PValue:   run.PValue,
		Duration: time.Since(s.Started),
		Finished: time.Now(),
	}); err != nil {
		return err
	}
	if err := m.WriteTextfile(o.MetricsPath); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Record stores run in the ledger at path opened with driver. It does
// nothing when path is empty.
func Record(ctx context.Context, driver, path string, run ledger.Run) (err error) {
	if path == "" {
		return nil
	}
	store, err := openLedger(driver, path)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close ledger: %w", closeErr))
		}
	}()
	id, err := store.RecordRun(ctx, run)
	if err != nil {
		return err
	}
	log.Printf("recorded %s run %d in %s", run.Tool, id, path)
	return nil
}
