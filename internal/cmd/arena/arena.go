// Package arena parses arena command flags and starts the service runtime.
package arena

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/crucible-games/arena/internal/platform/cmd"
	"github.com/crucible-games/arena/internal/services/arena/app"
	"github.com/crucible-games/arena/internal/services/arena/domain"
)

// Config holds arena command configuration.
type Config struct {
	Port      int    `env:"ARENA_PORT" envDefault:"8080"`
	DataDir   string `env:"ARENA_DATA_DIR"`
	Authority string `env:"ARENA_AUTHORITY" envDefault:"authority"`

	FeePercent    int64         `env:"ARENA_FEE_PERCENT" envDefault:"10"`
	DefaultStake  int64         `env:"ARENA_DEFAULT_STAKE" envDefault:"100"`
	MatchTimeout  time.Duration `env:"ARENA_MATCH_TIMEOUT" envDefault:"30m"`
	DisputeWindow time.Duration `env:"ARENA_DISPUTE_WINDOW" envDefault:"24h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The arena server port")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the ledger and history databases")
	fs.StringVar(&cfg.Authority, "authority", cfg.Authority, "The account authorized to rule contests")
	fs.Int64Var(&cfg.FeePercent, "fee-percent", cfg.FeePercent, "Platform fee as a percentage of the pot")
	fs.Int64Var(&cfg.DefaultStake, "default-stake", cfg.DefaultStake, "Stake applied when a request omits one")
	fs.DurationVar(&cfg.MatchTimeout, "match-timeout", cfg.MatchTimeout, "How long a matched contest may wait for a ruling")
	fs.DurationVar(&cfg.DisputeWindow, "dispute-window", cfg.DisputeWindow, "How long after creation a ruling may be disputed")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the arena service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceArena, func(context.Context) error {
		return app.Run(ctx, app.Options{
			Port:      cfg.Port,
			DataDir:   cfg.DataDir,
			Authority: domain.AccountID(cfg.Authority),
			Settings: domain.Settings{
				FeePercent:    cfg.FeePercent,
				DefaultStake:  cfg.DefaultStake,
				MatchTimeout:  cfg.MatchTimeout,
				DisputeWindow: cfg.DisputeWindow,
			},
		})
	})
}
