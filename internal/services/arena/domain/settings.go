package domain

import "time"

// Settings are the process-wide engine parameters. They are injected into
// operations rather than read as ambient globals, and only the authority
// may mutate them.
type Settings struct {
	// FeePercent is the platform cut of the pot taken at ruling time.
	FeePercent int64
	// DefaultStake is used by front doors that let callers omit a stake.
	DefaultStake int64
	// MatchTimeout bounds how long a Ready contest may wait for a ruling.
	MatchTimeout time.Duration
	// DisputeWindow bounds how long after contest creation a completed
	// ruling may be disputed.
	DisputeWindow time.Duration
}

// DefaultSettings mirror a conservative production configuration.
func DefaultSettings() Settings {
	return Settings{
		FeePercent:    10,
		DefaultStake:  100,
		MatchTimeout:  30 * time.Minute,
		DisputeWindow: 24 * time.Hour,
	}
}

// Validate checks every parameter range.
func (s Settings) Validate() error {
	if s.FeePercent < 0 || s.FeePercent > 100 {
		return ErrInvalidSetting
	}
	if s.DefaultStake <= 0 {
		return ErrInvalidSetting
	}
	if s.MatchTimeout <= 0 {
		return ErrInvalidSetting
	}
	if s.DisputeWindow <= 0 {
		return ErrInvalidSetting
	}
	return nil
}
