package session

import (
	"flag"

	"github.com/louisbranch/randlab/internal/ledger/backend"
)

// Outputs configures where a run is published besides its report.
type Outputs struct {
	LedgerPath   string `env:"LEDGER_PATH"`
	LedgerDriver string `env:"LEDGER_DRIVER" envDefault:"sqlite"`
	MetricsPath  string `env:"METRICS_PATH"`
}

// BindFlags registers the output flags over the current values.
func (o *Outputs) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.LedgerPath, "ledger", o.LedgerPath, "run ledger path (empty = disabled)")
	fs.StringVar(&o.LedgerDriver, "ledger-driver", o.LedgerDriver, "run ledger driver ("+backend.DriverSQLite+", "+backend.DriverBadger+")")
	fs.StringVar(&o.MetricsPath, "metrics", o.MetricsPath, "Prometheus textfile path (empty = disabled)")
}
