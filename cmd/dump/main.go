// Package main writes a sampled symbol sequence to a binary file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/randlab/internal/platform/cmd"
	"github.com/louisbranch/randlab/internal/platform/config"
	"github.com/louisbranch/randlab/internal/tools/dump"
)

func main() {
	cfg, err := dump.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ToolDump, func(ctx context.Context) error {
		return dump.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
