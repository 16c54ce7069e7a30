// Package main prints uniform and normal distribution histograms.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/config"
	"github.com/louisbranch/randlab/internal/tools/distribution"
)

func main() {
	cfg, err := distribution.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ToolDistribution, func(ctx context.Context) error {
		return distribution.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
