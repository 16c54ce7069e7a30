// Package main lists runs recorded in a run ledger.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/config"
	ledgertool "github.com/louisbranch/randlab/internal/tools/ledger"
)

func main() {
	cfg, err := ledgertool.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ToolLedger, func(ctx context.Context) error {
		return ledgertool.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
