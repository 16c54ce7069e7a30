package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Trials int    `env:"CMD_TEST_TRIALS" envDefault:"100000"`
	Policy string `env:"CMD_TEST_POLICY" envDefault:"rejection"`
}

func bindTestFlags(fs *flag.FlagSet, cfg *testConfig) {
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "trials")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "policy")
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("RANDLAB_CMD_TEST_TRIALS", "500")
	t.Setenv("RANDLAB_CMD_TEST_POLICY", "modulo")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	bindTestFlags(fs, &cfg)

	if err := ParseArgs(fs, []string{"-trials", "20"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Trials != 20 {
		t.Fatalf("expected flag value for trials, got %d", cfg.Trials)
	}
	if cfg.Policy != "modulo" {
		t.Fatalf("expected env policy, got %q", cfg.Policy)
	}
}

func TestParseConfigFromArgsKeepsDefaults(t *testing.T) {
	cfg := testConfig{}
	fs := flag.NewFlagSet("defaults", flag.ContinueOnError)
	if err := ParseConfigFromArgs(&cfg, fs, nil, bindTestFlags); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Trials != 100000 || cfg.Policy != "rejection" {
		t.Fatalf("expected env defaults, got %+v", cfg)
	}
}

func TestParseConfigFromArgsFlagsWin(t *testing.T) {
	t.Setenv("RANDLAB_CMD_TEST_POLICY", "modulo")

	cfg := testConfig{}
	fs := flag.NewFlagSet("override", flag.ContinueOnError)
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-policy", "rejection"}, bindTestFlags); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Policy != "rejection" {
		t.Fatalf("expected flag policy, got %q", cfg.Policy)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing tool error")
	}
	if err := RunWithTelemetry(context.Background(), ToolInterval, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("RANDLAB_OTEL_ENDPOINT", "")

	want := errors.New("boom")
	called := false
	err := RunWithTelemetry(context.Background(), ToolDump, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
