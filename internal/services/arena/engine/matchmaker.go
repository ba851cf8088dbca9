package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/crucible-games/arena/internal/services/arena/domain"
)

// FindOrJoin seats the caller into the oldest Waiting contest with a
// matching stake and exactly one other participant, or opens a fresh
// contest and seats the caller as its first participant. The caller's
// deposit escrows before any seat commits.
func (e *Engine) FindOrJoin(ctx context.Context, caller domain.AccountID, stake int64) (int64, error) {
	ctx, span := e.tracer.Start(ctx, "engine.FindOrJoin")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller == "" {
		return 0, domain.ErrInvalidAccount
	}
	if stake <= 0 {
		return 0, domain.ErrZeroStake
	}

	found := e.registry.FindActive(func(c *domain.Contest) bool {
		return c.State == domain.ContestStateWaiting &&
			c.Stake == stake &&
			c.ParticipantCount() == 1 &&
			!c.HasParticipant(caller)
	})
	if found != nil {
		if err := e.join(ctx, found.ID, caller, stake); err != nil {
			return 0, err
		}
		span.SetAttributes(attribute.Int64("contest.id", found.ID))
		return found.ID, nil
	}

	contest, err := e.registry.Create(stake, e.clock())
	if err != nil {
		return 0, err
	}
	if err := e.join(ctx, contest.ID, caller, stake); err != nil {
		// The fresh contest never escrowed funds or seated anyone; forget
		// it entirely so no orphaned Waiting record stays joinable by id.
		e.registry.Discard(contest.ID)
		return 0, err
	}
	span.SetAttributes(
		attribute.Int64("contest.id", contest.ID),
		attribute.Bool("contest.created", true))
	return contest.ID, nil
}
