package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"
)

type serviceConfig struct {
	Port          int           `env:"ARENA_CMDTEST_PORT" envDefault:"8080"`
	Authority     string        `env:"ARENA_CMDTEST_AUTHORITY" envDefault:"authority"`
	DisputeWindow time.Duration `env:"ARENA_CMDTEST_DISPUTE_WINDOW" envDefault:"24h"`
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("ARENA_CMDTEST_PORT", "9000")
	t.Setenv("ARENA_CMDTEST_AUTHORITY", "ops")

	var cfg serviceConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port")
	fs.StringVar(&cfg.Authority, "authority", cfg.Authority, "authority")

	if err := ParseArgs(fs, []string{"-port", "9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected flag port to win, got %d", cfg.Port)
	}
	if cfg.Authority != "ops" {
		t.Fatalf("expected env authority kept, got %q", cfg.Authority)
	}
	if cfg.DisputeWindow != 24*time.Hour {
		t.Fatalf("expected default dispute window, got %v", cfg.DisputeWindow)
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	t.Setenv("ARENA_CMDTEST_AUTHORITY", "ops")

	var cfg serviceConfig
	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", 0, "port")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-port", "9002"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Port != 9002 || cfg.Authority != "ops" {
		t.Fatalf("expected flag and env merged, got %+v", cfg)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryValidatesInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceArena, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	want := errors.New("listener failed")
	err := RunWithTelemetry(context.Background(), ServiceArena, func(context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected run error propagated, got %v", err)
	}
}
