package domain

// PlayerStats aggregates one account's contest record. Records are created
// lazily on first update and never deleted. Counters only grow, except for
// the single-step reversal applied when a dispute overturns a ruling.
type PlayerStats struct {
	Wins              int64
	Losses            int64
	Played            int64
	Timeouts          int64
	DisputesInitiated int64
}

// StatsStore owns every PlayerStats record. It is not safe for concurrent
// use; the engine serializes access.
type StatsStore struct {
	players map[AccountID]*PlayerStats
}

// NewStatsStore returns an empty stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{players: make(map[AccountID]*PlayerStats)}
}

func (s *StatsStore) ensure(account AccountID) *PlayerStats {
	stats, ok := s.players[account]
	if !ok {
		stats = &PlayerStats{}
		s.players[account] = stats
	}
	return stats
}

// CreditWin records a win and one played contest.
func (s *StatsStore) CreditWin(account AccountID) {
	stats := s.ensure(account)
	stats.Wins++
	stats.Played++
}

// CreditLoss records a loss and one played contest.
func (s *StatsStore) CreditLoss(account AccountID) {
	stats := s.ensure(account)
	stats.Losses++
	stats.Played++
}

// CreditTimeout records a timeout and one played contest.
func (s *StatsStore) CreditTimeout(account AccountID) {
	stats := s.ensure(account)
	stats.Timeouts++
	stats.Played++
}

// CreditDispute records a dispute initiation.
func (s *StatsStore) CreditDispute(account AccountID) {
	s.ensure(account).DisputesInitiated++
}

// ReverseWin backs out a previously credited win. Played is untouched: the
// contest was still played, only its outcome changed.
func (s *StatsStore) ReverseWin(account AccountID) {
	s.ensure(account).Wins--
}

// ReverseLoss backs out a previously credited loss.
func (s *StatsStore) ReverseLoss(account AccountID) {
	s.ensure(account).Losses--
}

// AwardWin records a win without touching played; used when a dispute
// reassigns an already-played contest's outcome.
func (s *StatsStore) AwardWin(account AccountID) {
	s.ensure(account).Wins++
}

// AwardLoss records a loss without touching played.
func (s *StatsStore) AwardLoss(account AccountID) {
	s.ensure(account).Losses++
}

// Get returns a copy of the account's stats; a zero record when the account
// has never played.
func (s *StatsStore) Get(account AccountID) PlayerStats {
	if stats, ok := s.players[account]; ok {
		return *stats
	}
	return PlayerStats{}
}

// Known reports whether the account has a stats record.
func (s *StatsStore) Known(account AccountID) bool {
	_, ok := s.players[account]
	return ok
}
