package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/ledger"
)

// InitiateDispute reopens a ruled contest for arbitration. Only a
// participant may dispute, only while the contest is Completed with a
// ruling on record, and only inside the dispute window measured from the
// contest's creation time. Cancelled contests carry no ruling and cannot
// be disputed.
func (e *Engine) InitiateDispute(ctx context.Context, id int64, caller domain.AccountID) error {
	_, span := e.tracer.Start(ctx, "engine.InitiateDispute",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateCompleted || contest.RuledWinner == "" {
		return domain.ErrWrongState
	}
	if !contest.HasParticipant(caller) {
		return domain.ErrNotAParticipant
	}
	now := e.clock()
	if now.After(contest.CreatedAt.Add(e.settings.DisputeWindow)) {
		return domain.ErrDisputeWindowClosed
	}

	contest.State = domain.ContestStateDisputed
	contest.DisputeInitiatedAt = &now
	contest.DisputeInitiator = caller
	e.stats.CreditDispute(caller)
	e.registry.AddActive(id)
	return nil
}

// Vote records one arbiter's ballot on a disputed contest. When the cast
// ballots form a strict majority of the current roster, the dispute
// resolves immediately.
func (e *Engine) Vote(ctx context.Context, id int64, arbiter, winner domain.AccountID, reason string) error {
	ctx, span := e.tracer.Start(ctx, "engine.Vote",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateDisputed {
		return domain.ErrWrongState
	}
	if !e.roster.Contains(arbiter) {
		return domain.ErrNotAuthorized
	}
	if contest.HasVoted(arbiter) {
		return domain.ErrAlreadyVoted
	}
	if !contest.HasParticipant(winner) {
		return domain.ErrInvalidWinner
	}

	contest.RecordVote(domain.Vote{Arbiter: arbiter, Winner: winner, Reason: reason})
	if !contest.MajorityReached(e.roster.Size()) {
		return nil
	}
	if err := e.resolveDispute(ctx, contest); err != nil {
		// An unsettleable verdict retracts the triggering ballot so it can
		// be resubmitted once funds are available.
		contest.RetractVote(arbiter)
		return err
	}
	return nil
}

// resolveDispute closes voting and applies the verdict. The previously
// ruled winner is captured before any mutation so a verdict that upholds
// the ruling compares against the original, not an already-updated field.
// An overturn pays the new winner the original pot minus the fee computed
// at ruling time, drawn from platform float so other contests' escrow is
// never touched; funds are never clawed back from the old winner. Stats
// move by single-step reversal so played counts stay untouched.
func (e *Engine) resolveDispute(ctx context.Context, contest *domain.Contest) error {
	oldWinner := contest.RuledWinner
	newWinner := contest.VoteLeader()

	var receipts []ledger.Receipt
	if newWinner != oldWinner {
		payout := contest.Pot() - contest.Fee
		paid, err := e.ledger.Correct(ctx, contest.ID, newWinner, payout)
		if err != nil {
			return err
		}
		receipts = []ledger.Receipt{paid}
	}

	contest.RuledWinner = newWinner
	contest.State = domain.ContestStateCompleted
	e.registry.RemoveActive(contest.ID)

	if newWinner != oldWinner {
		e.stats.ReverseWin(oldWinner)
		e.stats.ReverseLoss(newWinner)
		e.stats.AwardWin(newWinner)
		e.stats.AwardLoss(oldWinner)
	}

	now := e.clock()
	e.archiveOutcome(ctx, contest, "completed", now)
	e.archiveSettlements(ctx, receipts)
	e.archiveStats(ctx, now, contest.ParticipantA, contest.ParticipantB)
	return nil
}
