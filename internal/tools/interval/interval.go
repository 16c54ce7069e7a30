// Package interval samples a bounded alphabet and reports, per symbol, how
// many trials separate consecutive occurrences.
package interval

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/randlab/internal/chart"
	"github.com/louisbranch/randlab/internal/gap"
	"github.com/louisbranch/randlab/internal/ledger"
	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/otel"
	"github.com/louisbranch/randlab/internal/session"
	"go.opentelemetry.io/otel/attribute"
)

// StrategyAll feeds one sampled sequence to every gap strategy.
const StrategyAll = "all"

// Config holds configuration for a gap interval run.
type Config struct {
	Seed     int64  `env:"SEED"`
	Alphabet int    `env:"ALPHABET" envDefault:"10"`
	Trials   int    `env:"TRIALS" envDefault:"100000"`
	MaxGap   int    `env:"MAX_GAP" envDefault:"100"`
	Policy   string `env:"POLICY" envDefault:"rejection"`
	Strategy string `env:"STRATEGY" envDefault:"last-position"`
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
	fs.IntVar(&cfg.MaxGap, "max-gap", cfg.MaxGap, "gaps at or above this value are dropped")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "range reduction policy (rejection, modulo)")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "gap strategy (last-position, position-log, all)")
	cfg.Outputs.BindFlags(fs)
}

func (c Config) validate() error {
	if c.Alphabet < 1 {
		return errors.New("alphabet size must be greater than zero")
	}
	if c.Trials < 1 {
		return errors.New("trials must be greater than zero")
	}
	if c.MaxGap < 2 {
		return errors.New("max gap must be at least 2")
	}
	return nil
}

func (c Config) strategyNames() []string {
	name := strings.ToLower(strings.TrimSpace(c.Strategy))
	if name == StrategyAll {
		return gap.Strategies()
	}
	return []string{name}
}

// Run samples cfg.Trials symbols, records their gaps with the configured
// strategies and writes one report per strategy to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	var strategies []gap.Strategy
	for _, name := range cfg.strategyNames() {
		s, err := gap.NewStrategy(name, cfg.Alphabet, cfg.MaxGap, cfg.Trials)
		if err != nil {
			return err
		}
		strategies = append(strategies, s)
	}

	sess, err := session.New(cfg.Seed, cfg.Policy)
	if err != nil {
		return err
	}
	sampler, err := sess.Sampler(cfg.Alphabet)
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer(platformcmd.ToolInterval).Start(ctx, "interval.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("randlab.seed", sess.Seed),
		attribute.Int("randlab.alphabet", sampler.Size()),
		attribute.Int("randlab.trials", cfg.Trials),
		attribute.Int("randlab.max_gap", cfg.MaxGap),
	)

	for i := 1; i <= cfg.Trials; i++ {
		symbol := sampler.Next()
		for _, s := range strategies {
			if err := s.Observe(symbol, i); err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
		}
	}
	span.SetAttributes(attribute.Int("randlab.draws", sampler.Draws()))

	if err := sess.WriteHeader(out, chart.Printer(), cfg.Trials); err != nil {
		return err
	}
	for _, s := range strategies {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := gap.WriteReport(out, fmt.Sprintf("Method - %s:", s.Name()), s.Histogram()); err != nil {
			return err
		}
	}

	return sess.Publish(ctx, cfg.Outputs, ledger.Run{
		Tool:     platformcmd.ToolInterval,
		Alphabet: cfg.Alphabet,
		Trials:   cfg.Trials,
	}, sampler.Draws())
}
