package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/crucible-games/arena/internal/services/arena/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path rejected")
	}
}

func TestRecordOutcomeUpsertsByContest(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first := storage.OutcomeRecord{
		ContestID:    1,
		ParticipantA: "alice",
		ParticipantB: "bob",
		Stake:        100,
		Fee:          20,
		Outcome:      "completed",
		RuledWinner:  "alice",
		CreatedAt:    created,
		ResolvedAt:   created.Add(time.Minute),
	}
	if err := store.RecordOutcome(ctx, first); err != nil {
		t.Fatalf("record outcome: %v", err)
	}

	// Dispute resolution rewrites the same contest row.
	corrected := first
	corrected.RuledWinner = "bob"
	corrected.Disputed = true
	corrected.ResolvedAt = created.Add(time.Hour)
	if err := store.RecordOutcome(ctx, corrected); err != nil {
		t.Fatalf("record corrected outcome: %v", err)
	}

	outcomes, err := store.ListOutcomes(ctx, 10)
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(outcomes))
	}
	got := outcomes[0]
	if got.RuledWinner != "bob" || !got.Disputed {
		t.Fatalf("expected corrected row, got %+v", got)
	}
	if got.Fee != 20 {
		t.Fatalf("fee must survive the rewrite, got %d", got.Fee)
	}
	if !got.ResolvedAt.Equal(created.Add(time.Hour)) {
		t.Fatalf("expected updated resolution time, got %v", got.ResolvedAt)
	}
}

func TestListOutcomesOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 3; i++ {
		record := storage.OutcomeRecord{
			ContestID:    i,
			ParticipantA: "alice",
			ParticipantB: "bob",
			Stake:        100,
			Outcome:      "completed",
			RuledWinner:  "alice",
			CreatedAt:    base,
			ResolvedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordOutcome(ctx, record); err != nil {
			t.Fatalf("record outcome %d: %v", i, err)
		}
	}

	outcomes, err := store.ListOutcomes(ctx, 2)
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected limit respected, got %d rows", len(outcomes))
	}
	if outcomes[0].ContestID != 3 || outcomes[1].ContestID != 2 {
		t.Fatalf("expected most recent first, got %d then %d", outcomes[0].ContestID, outcomes[1].ContestID)
	}
}

func TestSettlementJournal(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	records := []storage.SettlementRecord{
		{ReceiptID: "r1", ContestID: 5, Destination: "alice", Amount: 180, Kind: "release", SettledAt: at},
		{ReceiptID: "r2", ContestID: 5, Destination: "authority", Amount: 20, Kind: "release", SettledAt: at.Add(time.Second)},
		{ReceiptID: "r3", ContestID: 9, Destination: "bob", Amount: 95, Kind: "release", SettledAt: at},
	}
	for _, record := range records {
		if err := store.RecordSettlement(ctx, record); err != nil {
			t.Fatalf("record settlement %s: %v", record.ReceiptID, err)
		}
	}
	// Replaying a receipt id is a no-op, not an error.
	if err := store.RecordSettlement(ctx, records[0]); err != nil {
		t.Fatalf("replay settlement: %v", err)
	}

	settlements, err := store.ListSettlements(ctx, 5)
	if err != nil {
		t.Fatalf("list settlements: %v", err)
	}
	if len(settlements) != 2 {
		t.Fatalf("expected 2 settlements for contest 5, got %d", len(settlements))
	}
	if settlements[0].ReceiptID != "r1" || settlements[1].ReceiptID != "r2" {
		t.Fatalf("expected settlement order r1, r2; got %s, %s", settlements[0].ReceiptID, settlements[1].ReceiptID)
	}
}

func TestPlayerStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.GetPlayerStats(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	record := storage.PlayerStatsRecord{
		Account:   "alice",
		Wins:      3,
		Losses:    1,
		Played:    4,
		UpdatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if err := store.UpsertPlayerStats(ctx, record); err != nil {
		t.Fatalf("upsert stats: %v", err)
	}

	record.Wins = 4
	record.Played = 5
	if err := store.UpsertPlayerStats(ctx, record); err != nil {
		t.Fatalf("upsert updated stats: %v", err)
	}

	got, err := store.GetPlayerStats(ctx, "alice")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got.Wins != 4 || got.Played != 5 || got.Losses != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
