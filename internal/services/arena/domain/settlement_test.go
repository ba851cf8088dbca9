package domain

import "testing"

func TestSplitPot(t *testing.T) {
	tests := []struct {
		name        string
		stake       int64
		feePercent  int64
		fee, payout int64
	}{
		{"ten percent", 100, 10, 20, 180},
		{"zero fee", 100, 0, 0, 200},
		{"full fee", 100, 100, 200, 0},
		{"rounding remainder goes to payout", 33, 10, 6, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, payout := SplitPot(tt.stake, tt.feePercent)
			if fee != tt.fee || payout != tt.payout {
				t.Fatalf("expected fee %d payout %d, got %d and %d", tt.fee, tt.payout, fee, payout)
			}
			if fee+payout != tt.stake*2 {
				t.Fatalf("pot not fully released: fee %d + payout %d != %d", fee, payout, tt.stake*2)
			}
		})
	}
}

func TestSplitTimeoutRefund(t *testing.T) {
	tests := []struct {
		stake, refund, share int64
	}{
		{100, 95, 5},
		{10, 9, 1},
		{33, 31, 2},
		{1, 0, 1},
	}
	for _, tt := range tests {
		refund, share := SplitTimeoutRefund(tt.stake)
		if refund != tt.refund || share != tt.share {
			t.Fatalf("stake %d: expected refund %d share %d, got %d and %d",
				tt.stake, tt.refund, tt.share, refund, share)
		}
		if refund+share != tt.stake {
			t.Fatalf("stake %d: refund %d + share %d strands escrow", tt.stake, refund, share)
		}
	}
}

func TestPot(t *testing.T) {
	c := NewContest(1, 75, testClock())
	if c.Pot() != 150 {
		t.Fatalf("expected pot 150, got %d", c.Pot())
	}
}
