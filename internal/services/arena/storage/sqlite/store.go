// Package sqlite implements the history store over a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crucible-games/arena/internal/platform/storage/sqlitemigrate"
	"github.com/crucible-games/arena/internal/services/arena/storage"
	"github.com/crucible-games/arena/internal/services/arena/storage/sqlite/migrations"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements storage.HistoryStore over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a history store at the provided path and applies bundled
// migrations, keeping startup and schema evolution in one place.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordOutcome upserts the terminal row for a contest. Dispute resolution
// rewrites the same contest id with the corrected winner.
func (s *Store) RecordOutcome(ctx context.Context, record storage.OutcomeRecord) error {
	const query = `
INSERT INTO contest_outcomes (
    contest_id, participant_a, participant_b, stake, fee,
    outcome, ruled_winner, disputed, created_at, resolved_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(contest_id) DO UPDATE SET
    outcome = excluded.outcome,
    ruled_winner = excluded.ruled_winner,
    disputed = excluded.disputed,
    resolved_at = excluded.resolved_at;
`
	_, err := s.sqlDB.ExecContext(ctx, query,
		record.ContestID,
		record.ParticipantA,
		record.ParticipantB,
		record.Stake,
		record.Fee,
		record.Outcome,
		record.RuledWinner,
		boolToInt(record.Disputed),
		toMillis(record.CreatedAt),
		toMillis(record.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// RecordSettlement journals one executed fund movement.
func (s *Store) RecordSettlement(ctx context.Context, record storage.SettlementRecord) error {
	const query = `
INSERT OR IGNORE INTO settlements (
    receipt_id, contest_id, destination, amount, kind, settled_at
) VALUES (?, ?, ?, ?, ?, ?);
`
	_, err := s.sqlDB.ExecContext(ctx, query,
		record.ReceiptID,
		record.ContestID,
		record.Destination,
		record.Amount,
		record.Kind,
		toMillis(record.SettledAt),
	)
	if err != nil {
		return fmt.Errorf("record settlement: %w", err)
	}
	return nil
}

// UpsertPlayerStats snapshots one account's counters.
func (s *Store) UpsertPlayerStats(ctx context.Context, record storage.PlayerStatsRecord) error {
	const query = `
INSERT INTO player_stats (
    account, wins, losses, played, timeouts, disputes_initiated, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(account) DO UPDATE SET
    wins = excluded.wins,
    losses = excluded.losses,
    played = excluded.played,
    timeouts = excluded.timeouts,
    disputes_initiated = excluded.disputes_initiated,
    updated_at = excluded.updated_at;
`
	_, err := s.sqlDB.ExecContext(ctx, query,
		record.Account,
		record.Wins,
		record.Losses,
		record.Played,
		record.Timeouts,
		record.DisputesInitiated,
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}
	return nil
}

// ListOutcomes returns the most recently resolved contests.
func (s *Store) ListOutcomes(ctx context.Context, limit int) ([]storage.OutcomeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT contest_id, participant_a, participant_b, stake, fee,
       outcome, ruled_winner, disputed, created_at, resolved_at
FROM contest_outcomes
ORDER BY resolved_at DESC, contest_id DESC
LIMIT ?;
`
	rows, err := s.sqlDB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var records []storage.OutcomeRecord
	for rows.Next() {
		var record storage.OutcomeRecord
		var disputed int
		var createdAt, resolvedAt int64
		if err := rows.Scan(
			&record.ContestID,
			&record.ParticipantA,
			&record.ParticipantB,
			&record.Stake,
			&record.Fee,
			&record.Outcome,
			&record.RuledWinner,
			&disputed,
			&createdAt,
			&resolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		record.Disputed = disputed != 0
		record.CreatedAt = fromMillis(createdAt)
		record.ResolvedAt = fromMillis(resolvedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return records, nil
}

// ListSettlements returns a contest's fund movements in settlement order.
func (s *Store) ListSettlements(ctx context.Context, contestID int64) ([]storage.SettlementRecord, error) {
	const query = `
SELECT receipt_id, contest_id, destination, amount, kind, settled_at
FROM settlements
WHERE contest_id = ?
ORDER BY settled_at ASC, receipt_id ASC;
`
	rows, err := s.sqlDB.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var records []storage.SettlementRecord
	for rows.Next() {
		var record storage.SettlementRecord
		var settledAt int64
		if err := rows.Scan(
			&record.ReceiptID,
			&record.ContestID,
			&record.Destination,
			&record.Amount,
			&record.Kind,
			&settledAt,
		); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		record.SettledAt = fromMillis(settledAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}
	return records, nil
}

// GetPlayerStats returns one account's snapshot.
func (s *Store) GetPlayerStats(ctx context.Context, account string) (storage.PlayerStatsRecord, error) {
	const query = `
SELECT account, wins, losses, played, timeouts, disputes_initiated, updated_at
FROM player_stats
WHERE account = ?;
`
	var record storage.PlayerStatsRecord
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, query, account).Scan(
		&record.Account,
		&record.Wins,
		&record.Losses,
		&record.Played,
		&record.Timeouts,
		&record.DisputesInitiated,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.PlayerStatsRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.PlayerStatsRecord{}, fmt.Errorf("get player stats: %w", err)
	}
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
