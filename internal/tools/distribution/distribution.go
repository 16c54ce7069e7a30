// Package distribution prints histograms of a uniform sampler and of a
// normal generator rounded onto the same alphabet.
package distribution

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/louisbranch/randlab/internal/chart"
	"github.com/louisbranch/randlab/internal/ledger"
	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/otel"
	"github.com/louisbranch/randlab/internal/random"
	"github.com/louisbranch/randlab/internal/session"
	"github.com/louisbranch/randlab/internal/stats"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/message"
)

// Config holds configuration for a distribution run.
type Config struct {
	Seed     int64  `env:"SEED"`
	Alphabet int    `env:"ALPHABET" envDefault:"10"`
	Trials   int    `env:"TRIALS" envDefault:"100000"`
	Policy   string `env:"POLICY" envDefault:"rejection"`
	Outputs  session.Outputs
}

// ParseConfig loads env defaults and parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.IntVar(&cfg.Alphabet, "n", cfg.Alphabet, "alphabet size; values fall in [0, n)")
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "number of draws per distribution")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "range reduction policy (rejection, modulo)")
	cfg.Outputs.BindFlags(fs)
}

func (c Config) validate() error {
	if c.Alphabet < 1 {
		return errors.New("alphabet size must be greater than zero")
	}
	if c.Trials < 1 {
		return errors.New("trials must be greater than zero")
	}
	return nil
}

// NormalParams returns the mean and standard deviation used for an alphabet
// of n values: centered, with three deviations reaching each edge.
func NormalParams(n int) (mean, stddev float64) {
	return float64(n-1) / 2, float64(n-1) / 6
}

// NormalIndex rounds x to the nearest value. ok is false when the rounded
// value falls outside [0, n).
func NormalIndex(x float64, n int) (idx int, ok bool) {
	r := math.Floor(x + 0.5)
	if !(r >= 0 && r < float64(n)) {
		return 0, false
	}
	return int(r), true
}

// Run draws cfg.Trials uniform values and cfg.Trials normal values from one
// seeded source and writes a histogram for each.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	sess, err := session.New(cfg.Seed, cfg.Policy)
	if err != nil {
		return err
	}
	sampler, err := sess.Sampler(cfg.Alphabet)
	if err != nil {
		return err
	}
	mean, stddev := NormalParams(cfg.Alphabet)
	normal, err := random.NewNormal(sess.Source, mean, stddev)
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer(platformcmd.ToolDistribution).Start(ctx, "distribution.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("randlab.seed", sess.Seed),
		attribute.Int("randlab.alphabet", cfg.Alphabet),
		attribute.Int("randlab.trials", cfg.Trials),
	)

	p := chart.Printer()
	trials := uint64(cfg.Trials)
	if err := sess.WriteHeader(out, p, cfg.Trials); err != nil {
		return err
	}

	uniform := make([]uint64, cfg.Alphabet)
	for i := 0; i < cfg.Trials; i++ {
		uniform[sampler.Next()]++
	}
	if _, err := fmt.Fprintf(out, "\nUniform distribution test (N=%d):\n", cfg.Alphabet); err != nil {
		return err
	}
	if err := chart.WriteHistogram(out, p, uniform, trials); err != nil {
		return err
	}

	run := ledger.Run{
		Tool:     platformcmd.ToolDistribution,
		Alphabet: cfg.Alphabet,
		Trials:   cfg.Trials,
	}
	res, err := stats.ChiSquaredUniform(uniform)
	switch {
	case errors.Is(err, stats.ErrTooFewBuckets):
	case err != nil:
		return err
	default:
		span.SetAttributes(attribute.Float64("randlab.p_value", res.PValue))
		if err := stats.WriteSummary(out, res, stats.DefaultAlpha); err != nil {
			return err
		}
		run.HasFit = true
		run.Statistic = res.Statistic
		run.PValue = res.PValue
	}

	dropped, err := writeNormal(out, p, normal, cfg.Alphabet, cfg.Trials)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.Int("randlab.draws", sampler.Draws()),
		attribute.Int("randlab.normal_dropped", dropped),
	)

	return sess.Publish(ctx, cfg.Outputs, run, sampler.Draws())
}

func writeNormal(out io.Writer, p *message.Printer, normal *random.Normal, n, trials int) (int, error) {
	counts := make([]uint64, n)
	dropped := 0
	for i := 0; i < trials; i++ {
		idx, ok := NormalIndex(normal.Next(), n)
		if !ok {
			dropped++
			continue
		}
		counts[idx]++
	}
	mean, stddev := NormalParams(n)
	if _, err := fmt.Fprintf(out, "\nNormal distribution test (mean=%.1f, stddev=%.1f):\n", mean, stddev); err != nil {
		return dropped, err
	}
	if err := chart.WriteHistogram(out, p, counts, uint64(trials)); err != nil {
		return dropped, err
	}
	_, err := p.Fprintf(out, "Out of range: %d\n", dropped)
	return dropped, err
}
