package domain

import (
	"errors"
	"testing"
	"time"
)

func testClock() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	r := NewRegistry()

	first, err := r.Create(100, testClock())
	if err != nil {
		t.Fatalf("create first contest: %v", err)
	}
	second, err := r.Create(250, testClock())
	if err != nil {
		t.Fatalf("create second contest: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.State != ContestStateWaiting {
		t.Fatalf("expected waiting state, got %v", first.State)
	}
	if first.ParticipantCount() != 0 {
		t.Fatalf("expected no participants, got %d", first.ParticipantCount())
	}
	if !r.IsActive(first.ID) || !r.IsActive(second.ID) {
		t.Fatal("expected new contests in the active set")
	}
}

func TestCreateRejectsNonPositiveStake(t *testing.T) {
	r := NewRegistry()

	for _, stake := range []int64{0, -1, -500} {
		if _, err := r.Create(stake, testClock()); !errors.Is(err, ErrInvalidStake) {
			t.Fatalf("stake %d: expected ErrInvalidStake, got %v", stake, err)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("expected no contests after rejected creates, got %d", r.Len())
	}
}

func TestRemoveActiveSwapsWithLast(t *testing.T) {
	r := NewRegistry()
	for range 4 {
		if _, err := r.Create(100, testClock()); err != nil {
			t.Fatalf("create contest: %v", err)
		}
	}

	// Removing from the middle moves the last id into the hole.
	r.RemoveActive(2)
	ids := r.ActiveIDs()
	want := []int64{1, 4, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %d active ids, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("active order: expected %v, got %v", want, ids)
		}
	}
	if r.IsActive(2) {
		t.Fatal("expected id 2 removed from active set")
	}

	// The moved id must remain removable via its fixed index entry.
	r.RemoveActive(4)
	if r.IsActive(4) {
		t.Fatal("expected id 4 removed from active set")
	}
	if got := r.ActiveLen(); got != 2 {
		t.Fatalf("expected 2 active ids, got %d", got)
	}
}

func TestRemoveActiveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(100, testClock()); err != nil {
		t.Fatalf("create contest: %v", err)
	}

	r.RemoveActive(1)
	r.RemoveActive(1)
	if r.ActiveLen() != 0 {
		t.Fatalf("expected empty active set, got %d", r.ActiveLen())
	}
}

func TestAddActiveAtIndexZeroIsTracked(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(100, testClock()); err != nil {
		t.Fatalf("create contest: %v", err)
	}

	// Id 1 legitimately occupies index 0; presence must not be conflated
	// with a zero index value.
	if !r.IsActive(1) {
		t.Fatal("expected id at index 0 to be tracked as active")
	}
	r.AddActive(1)
	if r.ActiveLen() != 1 {
		t.Fatalf("expected re-add to be a no-op, got %d entries", r.ActiveLen())
	}

	r.RemoveActive(1)
	if r.IsActive(1) {
		t.Fatal("expected id removed")
	}
	r.AddActive(1)
	if !r.IsActive(1) || r.ActiveLen() != 1 {
		t.Fatal("expected dispute-style re-add to restore membership")
	}
}

func TestDiscardForgetsContest(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(100, testClock()); err != nil {
		t.Fatalf("create contest: %v", err)
	}
	if _, err := r.Create(100, testClock()); err != nil {
		t.Fatalf("create contest: %v", err)
	}

	r.Discard(1)
	if _, ok := r.Get(1); ok {
		t.Fatal("expected discarded contest gone from the table")
	}
	if r.IsActive(1) {
		t.Fatal("expected discarded contest gone from the active set")
	}
	if r.Len() != 1 || r.ActiveLen() != 1 {
		t.Fatalf("expected only contest 2 left, got %d/%d", r.Len(), r.ActiveLen())
	}

	// The discarded id is never reused.
	third, err := r.Create(100, testClock())
	if err != nil {
		t.Fatalf("create contest: %v", err)
	}
	if third.ID != 3 {
		t.Fatalf("expected id 3, got %d", third.ID)
	}
}

func TestFindActiveScansInInsertionOrder(t *testing.T) {
	r := NewRegistry()
	for _, stake := range []int64{50, 100, 100} {
		if _, err := r.Create(stake, testClock()); err != nil {
			t.Fatalf("create contest: %v", err)
		}
	}

	found := r.FindActive(func(c *Contest) bool { return c.Stake == 100 })
	if found == nil || found.ID != 2 {
		t.Fatalf("expected earliest matching contest 2, got %+v", found)
	}
	if missing := r.FindActive(func(c *Contest) bool { return c.Stake == 999 }); missing != nil {
		t.Fatalf("expected no match, got contest %d", missing.ID)
	}
}

func TestMembershipIndex(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(100, testClock()); err != nil {
		t.Fatalf("create contest: %v", err)
	}
	r.RecordMembership("alice", 1)
	r.RecordMembership("alice", 7)
	r.RecordMembership("", 9)

	ids := r.ByParticipant("alice")
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 7 {
		t.Fatalf("expected [1 7], got %v", ids)
	}
	if len(r.ByParticipant("bob")) != 0 {
		t.Fatal("expected empty membership for unknown account")
	}
}
