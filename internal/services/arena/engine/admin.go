package engine

import (
	"context"
	"time"

	"github.com/crucible-games/arena/internal/services/arena/domain"
)

// AddArbiter enrolls an account into the dispute roster. Authority only.
func (e *Engine) AddArbiter(ctx context.Context, caller, arbiter domain.AccountID) error {
	_, span := e.tracer.Start(ctx, "engine.AddArbiter")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	return e.roster.Add(arbiter)
}

// RemoveArbiter withdraws an account from the dispute roster. Authority
// only; the authority itself cannot be removed.
func (e *Engine) RemoveArbiter(ctx context.Context, caller, arbiter domain.AccountID) error {
	_, span := e.tracer.Start(ctx, "engine.RemoveArbiter")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	return e.roster.Remove(arbiter)
}

// Arbiters returns the roster in enrollment order.
func (e *Engine) Arbiters() []domain.AccountID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.roster.List()
}

// UpdateSettings replaces the process-wide parameters. Authority only.
// In-flight contests keep the timing the settings had when they were
// created only insofar as deadlines derive from stored timestamps; the
// window durations themselves apply immediately.
func (e *Engine) UpdateSettings(ctx context.Context, caller domain.AccountID, settings domain.Settings) error {
	_, span := e.tracer.Start(ctx, "engine.UpdateSettings")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	e.settings = settings
	return nil
}

// SetFeePercent adjusts the platform cut. Authority only.
func (e *Engine) SetFeePercent(ctx context.Context, caller domain.AccountID, percent int64) error {
	return e.amendSettings(ctx, "engine.SetFeePercent", caller, func(s *domain.Settings) {
		s.FeePercent = percent
	})
}

// SetDefaultStake adjusts the stake applied when a caller omits one.
// Authority only.
func (e *Engine) SetDefaultStake(ctx context.Context, caller domain.AccountID, stake int64) error {
	return e.amendSettings(ctx, "engine.SetDefaultStake", caller, func(s *domain.Settings) {
		s.DefaultStake = stake
	})
}

// SetMatchTimeout adjusts how long a ready contest may wait for a ruling.
// Authority only; contests already past the new deadline become eligible
// for ResolveTimeout immediately.
func (e *Engine) SetMatchTimeout(ctx context.Context, caller domain.AccountID, timeout time.Duration) error {
	return e.amendSettings(ctx, "engine.SetMatchTimeout", caller, func(s *domain.Settings) {
		s.MatchTimeout = timeout
	})
}

// SetDisputeWindow adjusts how long after creation a ruling may be
// disputed. Authority only.
func (e *Engine) SetDisputeWindow(ctx context.Context, caller domain.AccountID, window time.Duration) error {
	return e.amendSettings(ctx, "engine.SetDisputeWindow", caller, func(s *domain.Settings) {
		s.DisputeWindow = window
	})
}

func (e *Engine) amendSettings(ctx context.Context, spanName string, caller domain.AccountID, amend func(*domain.Settings)) error {
	_, span := e.tracer.Start(ctx, spanName)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	next := e.settings
	amend(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	e.settings = next
	return nil
}
