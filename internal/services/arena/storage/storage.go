// Package storage defines the durable history layer. The engine's
// authoritative state lives in memory; history rows are written after a
// terminal transition commits and feed operator tooling and read views.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// OutcomeRecord is the terminal row for one contest. Dispute resolution
// rewrites the row for its contest id.
type OutcomeRecord struct {
	ContestID    int64
	ParticipantA string
	ParticipantB string
	Stake        int64
	Fee          int64
	// Outcome is the terminal state label: completed, timed_out, or cancelled.
	Outcome     string
	RuledWinner string
	Disputed    bool
	CreatedAt   time.Time
	ResolvedAt  time.Time
}

// SettlementRecord journals one executed fund movement.
type SettlementRecord struct {
	ReceiptID   string
	ContestID   int64
	Destination string
	Amount      int64
	Kind        string
	SettledAt   time.Time
}

// PlayerStatsRecord snapshots one account's counters.
type PlayerStatsRecord struct {
	Account           string
	Wins              int64
	Losses            int64
	Played            int64
	Timeouts          int64
	DisputesInitiated int64
	UpdatedAt         time.Time
}

// HistoryStore persists contest outcomes, settlements, and stats snapshots.
type HistoryStore interface {
	RecordOutcome(ctx context.Context, record OutcomeRecord) error
	RecordSettlement(ctx context.Context, record SettlementRecord) error
	UpsertPlayerStats(ctx context.Context, record PlayerStatsRecord) error

	ListOutcomes(ctx context.Context, limit int) ([]OutcomeRecord, error)
	ListSettlements(ctx context.Context, contestID int64) ([]SettlementRecord, error)
	GetPlayerStats(ctx context.Context, account string) (PlayerStatsRecord, error)

	Close() error
}
