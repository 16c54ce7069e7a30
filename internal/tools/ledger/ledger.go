// Package ledger lists runs recorded by the sampling tools.
package ledger

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/randlab/internal/chart"
	"github.com/louisbranch/randlab/internal/ledger"
	"github.com/louisbranch/randlab/internal/ledger/backend"
	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/otel"
	"github.com/olekukonko/tablewriter"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat indicates an output format that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrLedgerNotFound indicates a ledger path with nothing at it.
var ErrLedgerNotFound = errors.New("ledger not found")

var openLedger = backend.Open

// Config holds configuration for listing recorded runs.
type Config struct {
	LedgerPath   string `env:"LEDGER_PATH"`
	LedgerDriver string `env:"LEDGER_DRIVER" envDefault:"sqlite"`
	Tool         string `env:"LEDGER_TOOL"`
	Limit        int    `env:"LEDGER_LIMIT" envDefault:"20"`
	Format       string `env:"LEDGER_FORMAT" envDefault:"table"`
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
	fs.StringVar(&cfg.LedgerPath, "ledger", cfg.LedgerPath, "run ledger path")
	fs.StringVar(&cfg.LedgerDriver, "ledger-driver", cfg.LedgerDriver, "run ledger driver (sqlite, badger)")
	fs.StringVar(&cfg.Tool, "tool", cfg.Tool, "only list runs of this tool")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of runs to list")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format (table, yaml)")
}

func (c Config) validate() error {
	if strings.TrimSpace(c.LedgerPath) == "" {
		return errors.New("ledger path is required")
	}
	if c.Limit < 1 {
		return errors.New("limit must be greater than zero")
	}
	switch c.Format {
	case FormatTable, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}
}

// Run writes the most recent runs in the configured ledger to out. The
// ledger must already exist.
func Run(ctx context.Context, cfg Config, out io.Writer) (err error) {
	if out == nil {
		return errors.New("output is required")
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if err := cfg.validate(); err != nil {
		return err
	}

	ctx, span := otel.Tracer(platformcmd.ToolLedger).Start(ctx, "ledger.Run")
	defer span.End()

	if _, err := os.Stat(cfg.LedgerPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrLedgerNotFound, cfg.LedgerPath)
		}
		return fmt.Errorf("stat ledger: %w", err)
	}
	store, err := openLedger(cfg.LedgerDriver, cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close ledger: %w", closeErr))
		}
	}()

	runs, err := store.ListRuns(ctx, cfg.Tool, cfg.Limit)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int("randlab.runs", len(runs)))

	if cfg.Format == FormatYAML {
		return WriteYAML(out, runs)
	}
	return WriteTable(out, runs)
}

// WriteTable renders runs as a table, one row per run. Runs without a
// goodness-of-fit result show a dash in the p-value column.
func WriteTable(w io.Writer, runs []ledger.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	p := chart.Printer()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Tool", "Seed", "Policy", "N", "Trials", "p-value", "Recorded"})
	for _, run := range runs {
		pValue := "-"
		if run.HasFit {
			pValue = strconv.FormatFloat(run.PValue, 'f', 4, 64)
		}
		table.Append([]string{
			strconv.FormatInt(run.ID, 10),
			run.Tool,
			strconv.FormatInt(run.Seed, 10),
			run.Policy,
			strconv.Itoa(run.Alphabet),
			p.Sprintf("%d", run.Trials),
			pValue,
			run.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}

// runView is the exported shape of a run.
type runView struct {
	ID        int64    `yaml:"id"`
	Tool      string   `yaml:"tool"`
	Seed      int64    `yaml:"seed"`
	Policy    string   `yaml:"policy,omitempty"`
	Alphabet  int      `yaml:"alphabet"`
	Trials    int      `yaml:"trials"`
	Statistic *float64 `yaml:"chi_squared,omitempty"`
	PValue    *float64 `yaml:"p_value,omitempty"`
	CreatedAt string   `yaml:"created_at"`
}

// WriteYAML renders runs as a YAML sequence.
func WriteYAML(w io.Writer, runs []ledger.Run) error {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		v := runView{
			ID:        run.ID,
			Tool:      run.Tool,
			Seed:      run.Seed,
			Policy:    run.Policy,
			Alphabet:  run.Alphabet,
			Trials:    run.Trials,
			CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
		}
		if run.HasFit {
			statistic, pValue := run.Statistic, run.PValue
			v.Statistic = &statistic
			v.PValue = &pValue
		}
		views = append(views, v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("encode runs: %w", err)
	}
	return enc.Close()
}
