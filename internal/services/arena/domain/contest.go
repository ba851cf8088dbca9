package domain

import (
	"maps"
	"slices"
	"time"
)

// AccountID identifies a participant, arbiter, or authority account.
// The empty value marks an unseated participant slot.
type AccountID string

// ContestState describes the lifecycle of a contest.
type ContestState int

const (
	// ContestStateUnspecified represents an invalid contest state value.
	ContestStateUnspecified ContestState = iota
	// ContestStateWaiting indicates the contest is open for participants.
	ContestStateWaiting
	// ContestStateReady indicates both seats are filled and play may be ruled.
	ContestStateReady
	// ContestStateCompleted indicates the contest is closed with a ruling,
	// or closed without play via the cancel path.
	ContestStateCompleted
	// ContestStateTimedOut indicates the contest expired before a ruling.
	ContestStateTimedOut
	// ContestStateDisputed indicates a completed ruling is under arbitration.
	ContestStateDisputed
)

// String returns the lowercase state label used in views and history rows.
func (s ContestState) String() string {
	switch s {
	case ContestStateWaiting:
		return "waiting"
	case ContestStateReady:
		return "ready"
	case ContestStateCompleted:
		return "completed"
	case ContestStateTimedOut:
		return "timed_out"
	case ContestStateDisputed:
		return "disputed"
	default:
		return "unspecified"
	}
}

// Vote is one arbiter's ballot on a disputed contest.
type Vote struct {
	Arbiter AccountID
	Winner  AccountID
	Reason  string
}

// Contest is one wagered two-party match managed by the engine.
type Contest struct {
	ID           int64
	ParticipantA AccountID
	ParticipantB AccountID
	// RuledWinner is set once a ruling (initial or post-dispute) is made.
	RuledWinner AccountID
	// Stake is the deposit each participant locks; fixed for the contest's lifetime.
	Stake int64
	// Fee is computed once at ruling time and never recalculated, even when
	// a dispute changes the winner.
	Fee   int64
	State ContestState

	CreatedAt          time.Time
	ReadyAt            *time.Time
	DisputeInitiatedAt *time.Time
	DisputeInitiator   AccountID

	Votes  []Vote
	TallyA int
	TallyB int

	voted map[AccountID]struct{}
}

// NewContest builds a Waiting contest with no participants.
func NewContest(id int64, stake int64, now time.Time) *Contest {
	return &Contest{
		ID:        id,
		Stake:     stake,
		State:     ContestStateWaiting,
		CreatedAt: now,
		voted:     map[AccountID]struct{}{},
	}
}

// ParticipantCount returns the number of filled seats.
func (c *Contest) ParticipantCount() int {
	count := 0
	if c.ParticipantA != "" {
		count++
	}
	if c.ParticipantB != "" {
		count++
	}
	return count
}

// HasParticipant reports whether the account occupies a seat.
func (c *Contest) HasParticipant(account AccountID) bool {
	return account != "" && (c.ParticipantA == account || c.ParticipantB == account)
}

// Opponent returns the other seat's occupant, or empty when the account is
// not seated or the seat is empty.
func (c *Contest) Opponent(account AccountID) AccountID {
	switch account {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	default:
		return ""
	}
}

// Seat places the account into the first empty slot and reports whether the
// contest is now full. Seat does not transition state; that is the caller's
// responsibility so fund movement can commit first.
func (c *Contest) Seat(account AccountID) (full bool) {
	if c.ParticipantA == "" {
		c.ParticipantA = account
	} else if c.ParticipantB == "" {
		c.ParticipantB = account
	}
	return c.ParticipantA != "" && c.ParticipantB != ""
}

// HasVoted reports whether the arbiter already voted on this contest.
func (c *Contest) HasVoted(arbiter AccountID) bool {
	_, ok := c.voted[arbiter]
	return ok
}

// RecordVote appends the ballot and bumps the matching tally. The caller
// must have validated state, roster membership, and double voting.
func (c *Contest) RecordVote(v Vote) {
	c.Votes = append(c.Votes, v)
	if c.voted == nil {
		c.voted = map[AccountID]struct{}{}
	}
	c.voted[v.Arbiter] = struct{}{}
	switch v.Winner {
	case c.ParticipantA:
		c.TallyA++
	case c.ParticipantB:
		c.TallyB++
	}
}

// RetractVote removes the arbiter's ballot and backs out its tally so the
// vote can be resubmitted. Used when the verdict it triggered could not be
// settled.
func (c *Contest) RetractVote(arbiter AccountID) {
	idx := -1
	for i, v := range c.Votes {
		if v.Arbiter == arbiter {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	switch c.Votes[idx].Winner {
	case c.ParticipantA:
		c.TallyA--
	case c.ParticipantB:
		c.TallyB--
	}
	c.Votes = slices.Delete(c.Votes, idx, idx+1)
	delete(c.voted, arbiter)
}

// MajorityReached reports whether the votes cast form a strict majority of
// the current arbiter roster size.
func (c *Contest) MajorityReached(rosterSize int) bool {
	return (c.TallyA+c.TallyB)*2 > rosterSize
}

// VoteLeader returns the participant with strictly more votes; on an exact
// tie it returns the previously ruled winner unchanged.
func (c *Contest) VoteLeader() AccountID {
	switch {
	case c.TallyA > c.TallyB:
		return c.ParticipantA
	case c.TallyB > c.TallyA:
		return c.ParticipantB
	default:
		return c.RuledWinner
	}
}

// Snapshot returns a deep copy safe to hand outside the engine lock.
func (c *Contest) Snapshot() Contest {
	clone := *c
	clone.Votes = slices.Clone(c.Votes)
	clone.voted = maps.Clone(c.voted)
	return clone
}
