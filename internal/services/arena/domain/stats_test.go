package domain

import "testing"

func TestStatsLazyCreation(t *testing.T) {
	s := NewStatsStore()

	if s.Known("alice") {
		t.Fatal("expected no record before first update")
	}
	if got := s.Get("alice"); got != (PlayerStats{}) {
		t.Fatalf("expected zero stats for unknown account, got %+v", got)
	}

	s.CreditWin("alice")
	if !s.Known("alice") {
		t.Fatal("expected record after first update")
	}
}

func TestStatsCounters(t *testing.T) {
	s := NewStatsStore()

	s.CreditWin("alice")
	s.CreditLoss("bob")
	s.CreditTimeout("alice")
	s.CreditTimeout("bob")
	s.CreditDispute("bob")

	alice := s.Get("alice")
	if alice.Wins != 1 || alice.Timeouts != 1 || alice.Played != 2 {
		t.Fatalf("unexpected alice stats: %+v", alice)
	}
	bob := s.Get("bob")
	if bob.Losses != 1 || bob.Timeouts != 1 || bob.Played != 2 || bob.DisputesInitiated != 1 {
		t.Fatalf("unexpected bob stats: %+v", bob)
	}
}

func TestStatsReversalKeepsPlayed(t *testing.T) {
	s := NewStatsStore()
	s.CreditWin("alice")
	s.CreditLoss("bob")

	// Dispute overturned the ruling: back out the old pair, apply the new.
	s.ReverseWin("alice")
	s.ReverseLoss("bob")
	s.AwardLoss("alice")
	s.AwardWin("bob")

	alice := s.Get("alice")
	if alice.Wins != 0 || alice.Losses != 1 {
		t.Fatalf("expected alice 0/1 after reversal, got %d/%d", alice.Wins, alice.Losses)
	}
	bob := s.Get("bob")
	if bob.Wins != 1 || bob.Losses != 0 {
		t.Fatalf("expected bob 1/0 after reversal, got %d/%d", bob.Wins, bob.Losses)
	}
	if alice.Played != 1 || bob.Played != 1 {
		t.Fatalf("played must stay at one per contest, got %d and %d", alice.Played, bob.Played)
	}
}
