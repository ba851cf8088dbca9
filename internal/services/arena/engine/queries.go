package engine

import (
	"time"

	"github.com/crucible-games/arena/internal/platform/pagination"
	"github.com/crucible-games/arena/internal/services/arena/domain"
)

var activeListLimits = pagination.LimitConfig{Default: 50, Max: 200}

// GetContest returns a snapshot of the contest.
func (e *Engine) GetContest(id int64) (domain.Contest, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.Contest{}, domain.ErrContestNotFound
	}
	return contest.Snapshot(), nil
}

// DisputeInfo is the arbitration view of one contest.
type DisputeInfo struct {
	ContestID   int64
	State       domain.ContestState
	Initiator   domain.AccountID
	InitiatedAt *time.Time
	RuledWinner domain.AccountID
	TallyA      int
	TallyB      int
	VotesCast   int
	RosterSize  int
}

// GetDisputeInfo returns the tallies and roster denominator for a contest
// that is or was under dispute.
func (e *Engine) GetDisputeInfo(id int64) (DisputeInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return DisputeInfo{}, domain.ErrContestNotFound
	}
	if contest.DisputeInitiatedAt == nil {
		return DisputeInfo{}, domain.ErrWrongState
	}
	return DisputeInfo{
		ContestID:   contest.ID,
		State:       contest.State,
		Initiator:   contest.DisputeInitiator,
		InitiatedAt: contest.DisputeInitiatedAt,
		RuledWinner: contest.RuledWinner,
		TallyA:      contest.TallyA,
		TallyB:      contest.TallyB,
		VotesCast:   len(contest.Votes),
		RosterSize:  e.roster.Size(),
	}, nil
}

// GetVoteDetails returns the individual ballots cast on a contest, in the
// order they arrived.
func (e *Engine) GetVoteDetails(id int64) ([]domain.Vote, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return nil, domain.ErrContestNotFound
	}
	if contest.DisputeInitiatedAt == nil {
		return nil, domain.ErrWrongState
	}
	snapshot := contest.Snapshot()
	return snapshot.Votes, nil
}

// ListActive returns a window of active contest snapshots in insertion
// order, plus the total active count.
func (e *Engine) ListActive(offset, limit int) ([]domain.Contest, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.registry.ActiveIDs()
	limit = pagination.ClampLimit(limit, activeListLimits)
	start, end := pagination.Window(offset, limit, len(ids))

	page := make([]domain.Contest, 0, end-start)
	for _, id := range ids[start:end] {
		if contest, ok := e.registry.Get(id); ok {
			page = append(page, contest.Snapshot())
		}
	}
	return page, len(ids)
}

// ListByParticipant returns snapshots of every contest the account ever
// joined, in join order.
func (e *Engine) ListByParticipant(account domain.AccountID) []domain.Contest {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.registry.ByParticipant(account)
	contests := make([]domain.Contest, 0, len(ids))
	for _, id := range ids {
		if contest, ok := e.registry.Get(id); ok {
			contests = append(contests, contest.Snapshot())
		}
	}
	return contests
}

// ClockInfo is one consistent reading of a contest's play window.
type ClockInfo struct {
	TimedOut  bool
	Remaining time.Duration
}

// ContestClock returns whether a Ready contest has outlived the play
// window and how long it has left, read together under one lock so the
// pair can never straddle a state change. Contests that never became
// Ready, or already closed, report not timed out with zero remaining.
func (e *Engine) ContestClock(id int64) (ClockInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	contest, ok := e.registry.Get(id)
	if !ok {
		return ClockInfo{}, domain.ErrContestNotFound
	}
	return e.clockInfoLocked(contest), nil
}

func (e *Engine) clockInfoLocked(contest *domain.Contest) ClockInfo {
	if contest.State != domain.ContestStateReady || contest.ReadyAt == nil {
		return ClockInfo{}
	}
	remaining := contest.ReadyAt.Add(e.settings.MatchTimeout).Sub(e.clock())
	if remaining < 0 {
		return ClockInfo{TimedOut: true}
	}
	return ClockInfo{Remaining: remaining}
}

// IsTimedOut reports whether a Ready contest has outlived the play window.
// Contests that never became Ready, or already closed, report false.
func (e *Engine) IsTimedOut(id int64) (bool, error) {
	info, err := e.ContestClock(id)
	if err != nil {
		return false, err
	}
	return info.TimedOut, nil
}

// TimeRemaining returns how long a Ready contest has before timing out,
// floored at zero. Contests in any other state report zero.
func (e *Engine) TimeRemaining(id int64) (time.Duration, error) {
	info, err := e.ContestClock(id)
	if err != nil {
		return 0, err
	}
	return info.Remaining, nil
}

// PlayerStats returns a copy of the account's counters; zero for unknown
// accounts.
func (e *Engine) PlayerStats(account domain.AccountID) domain.PlayerStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats.Get(account)
}
