// Package dump writes a sampled symbol sequence to a binary file.
package dump

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/louisbranch/randlab/internal/chart"
	"github.com/louisbranch/randlab/internal/dump"
	"github.com/louisbranch/randlab/internal/ledger"
	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/otel"
	"github.com/louisbranch/randlab/internal/session"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds configuration for a dump run.
type Config struct {
	Seed     int64  `env:"SEED"`
	Alphabet int    `env:"ALPHABET" envDefault:"256"`
	Length   int    `env:"DUMP_LENGTH" envDefault:"125000"`
	Path     string `env:"DUMP_PATH" envDefault:"random_sequence.bin"`
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
	fs.IntVar(&cfg.Alphabet, "n", cfg.Alphabet, "alphabet size; records hold values in [0, n)")
	fs.IntVar(&cfg.Length, "length", cfg.Length, "number of records to write")
	fs.StringVar(&cfg.Path, "out", cfg.Path, "output file path")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "range reduction policy (rejection, modulo)")
	cfg.Outputs.BindFlags(fs)
}

func (c Config) validate() error {
	if c.Alphabet < 1 {
		return errors.New("alphabet size must be greater than zero")
	}
	if c.Length < 0 {
		return errors.New("length must not be negative")
	}
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("output path is required")
	}
	return nil
}

// Run writes cfg.Length sampled records to cfg.Path.
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

	ctx, span := otel.Tracer(platformcmd.ToolDump).Start(ctx, "dump.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("randlab.seed", sess.Seed),
		attribute.Int("randlab.alphabet", sampler.Size()),
		attribute.Int("randlab.length", cfg.Length),
		attribute.String("randlab.path", cfg.Path),
	)

	p := chart.Printer()
	if _, err := fmt.Fprintf(out, "Record range: [%d, %d], %d bytes little-endian\n", dump.MinRecord, dump.MaxRecord, dump.RecordSize); err != nil {
		return err
	}

	written, err := writeFile(cfg.Path, func(w io.Writer) (int, error) {
		return dump.Write(w, sampler, cfg.Length)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	if _, err := p.Fprintf(out, "Wrote %d records (%s) to %s\n", written, humanize.Bytes(uint64(written)*dump.RecordSize), cfg.Path); err != nil {
		return err
	}

	return sess.Publish(ctx, cfg.Outputs, ledger.Run{
		Tool:     platformcmd.ToolDump,
		Alphabet: cfg.Alphabet,
		Trials:   written,
	}, sampler.Draws())
}

// writeFile creates path and fills it with write. A failed write or close
// removes the partial file.
func writeFile(path string, write func(io.Writer) (int, error)) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create dump file %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil {
				err = errors.Join(err, fmt.Errorf("remove partial dump file: %w", rmErr))
			}
		}
	}()
	n, err = write(f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close dump file %s: %w", path, closeErr)
	}
	return n, err
}
