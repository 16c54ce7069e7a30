// Package probability samples a bounded alphabet and reports how often each
// symbol occurred.
package probability

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/randlab/internal/chart"
	"github.com/louisbranch/randlab/internal/ledger"
	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/otel"
	"github.com/louisbranch/randlab/internal/session"
	"github.com/louisbranch/randlab/internal/stats"
	"github.com/louisbranch/randlab/internal/tally"
	"go.opentelemetry.io/otel/attribute"
)

// CounterAll feeds one sampled sequence to every counter.
const CounterAll = "all"

// Config holds configuration for an occurrence count run.
type Config struct {
	Seed     int64  `env:"SEED"`
	Alphabet int    `env:"ALPHABET" envDefault:"10"`
	Trials   int    `env:"TRIALS" envDefault:"100000"`
	Policy   string `env:"POLICY" envDefault:"rejection"`
	Counter  string `env:"COUNTER" envDefault:"all"`
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
	fs.IntVar(&cfg.Alphabet, "n", cfg.Alphabet, "alphabet size; symbols are drawn from [0, n)")
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "number of draws")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "range reduction policy (rejection, modulo)")
	fs.StringVar(&cfg.Counter, "counter", cfg.Counter, "counter (array, map, all)")
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

func (c Config) counterNames() []string {
	name := strings.ToLower(strings.TrimSpace(c.Counter))
	if name == CounterAll {
		return tally.Counters()
	}
	return []string{name}
}

// Run samples cfg.Trials symbols, counts them with the configured counters
// and writes a percentage table per counter followed by a chi-squared line.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	var counters []tally.Counter
	for _, name := range cfg.counterNames() {
		c, err := tally.NewCounter(name, cfg.Alphabet)
		if err != nil {
			return err
		}
		counters = append(counters, c)
	}

	sess, err := session.New(cfg.Seed, cfg.Policy)
	if err != nil {
		return err
	}
	sampler, err := sess.Sampler(cfg.Alphabet)
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer(platformcmd.ToolProbability).Start(ctx, "probability.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("randlab.seed", sess.Seed),
		attribute.Int("randlab.alphabet", sampler.Size()),
		attribute.Int("randlab.trials", cfg.Trials),
	)

	for i := 0; i < cfg.Trials; i++ {
		symbol := sampler.Next()
		for _, c := range counters {
			c.Add(symbol)
		}
	}
	span.SetAttributes(attribute.Int("randlab.draws", sampler.Draws()))

	p := chart.Printer()
	if err := sess.WriteHeader(out, p, cfg.Trials); err != nil {
		return err
	}
	trials := uint64(cfg.Trials)
	for _, c := range counters {
		if c.Total() != trials {
			return fmt.Errorf("%s counted %d of %d trials", c.Name(), c.Total(), trials)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		title := fmt.Sprintf("Method - %s:", c.Name())
		if err := tally.WriteReport(out, p, title, tally.Counts(c, cfg.Alphabet), trials); err != nil {
			return err
		}
	}

	run := ledger.Run{
		Tool:     platformcmd.ToolProbability,
		Alphabet: cfg.Alphabet,
		Trials:   cfg.Trials,
	}
	res, err := stats.ChiSquaredUniform(tally.Counts(counters[0], cfg.Alphabet))
	switch {
	case errors.Is(err, stats.ErrTooFewBuckets):
	case err != nil:
		return err
	default:
		span.SetAttributes(attribute.Float64("randlab.p_value", res.PValue))
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := stats.WriteSummary(out, res, stats.DefaultAlpha); err != nil {
			return err
		}
		run.HasFit = true
		run.Statistic = res.Statistic
		run.PValue = res.PValue
	}

	return sess.Publish(ctx, cfg.Outputs, run, sampler.Draws())
}
