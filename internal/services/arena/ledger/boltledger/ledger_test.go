package boltledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/ledger"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Fatalf("close ledger: %v", err)
		}
	})
	return l
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path rejected")
	}
}

func TestHoldAndSettleRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.Deposit(ctx, "alice", 300); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	receipt, err := l.Hold(ctx, 7, "alice", 100)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if receipt.ID == "" || receipt.Kind != ledger.KindHold {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	balance, err := l.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 200 {
		t.Fatalf("expected balance 200, got %d", balance)
	}
	held, err := l.HeldFor(ctx, 7)
	if err != nil {
		t.Fatalf("held: %v", err)
	}
	if held != 100 {
		t.Fatalf("expected 100 held for contest, got %d", held)
	}

	receipts, err := l.Settle(ctx, 7, []ledger.Movement{{Destination: "bob", Amount: 100}})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(receipts) != 1 || receipts[0].Kind != ledger.KindRelease {
		t.Fatalf("unexpected receipts: %+v", receipts)
	}
	bobBalance, err := l.Balance(ctx, "bob")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bobBalance != 100 {
		t.Fatalf("expected bob credited 100, got %d", bobBalance)
	}
	pool, err := l.PoolBalance(ctx)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool != 0 {
		t.Fatalf("expected pool drained, got %d", pool)
	}
}

func TestSettleIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.Deposit(ctx, "alice", 100); err != nil {
		t.Fatalf("deposit alice: %v", err)
	}
	if err := l.Deposit(ctx, "bob", 200); err != nil {
		t.Fatalf("deposit bob: %v", err)
	}
	if _, err := l.Hold(ctx, 1, "alice", 100); err != nil {
		t.Fatalf("hold contest 1: %v", err)
	}
	if _, err := l.Hold(ctx, 2, "bob", 200); err != nil {
		t.Fatalf("hold contest 2: %v", err)
	}

	// Contest 1 holds 100; a 120 settlement must not partially commit or
	// lean on contest 2's escrow.
	_, err := l.Settle(ctx, 1, []ledger.Movement{
		{Destination: "authority", Amount: 20},
		{Destination: "alice", Amount: 100},
	})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	for _, account := range []domain.AccountID{"authority", "alice"} {
		balance, err := l.Balance(ctx, account)
		if err != nil {
			t.Fatalf("balance %s: %v", account, err)
		}
		if balance != 0 {
			t.Fatalf("expected no partial payout to %s, got %d", account, balance)
		}
	}
	held, err := l.HeldFor(ctx, 2)
	if err != nil {
		t.Fatalf("held: %v", err)
	}
	if held != 200 {
		t.Fatalf("expected contest 2 escrow untouched, got %d", held)
	}
}

func TestCorrectDrawsOnlyFloat(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.Deposit(ctx, "bob", 200); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := l.Hold(ctx, 2, "bob", 200); err != nil {
		t.Fatalf("hold: %v", err)
	}

	// The pool carries 200 of held escrow, but with zero float the
	// correction must fail rather than consume it.
	if _, err := l.Correct(ctx, 1, "alice", 10); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if err := l.TopUp(ctx, 25); err != nil {
		t.Fatalf("top up: %v", err)
	}
	receipt, err := l.Correct(ctx, 1, "alice", 10)
	if err != nil {
		t.Fatalf("correct after top-up: %v", err)
	}
	if receipt.Kind != ledger.KindCorrection {
		t.Fatalf("expected correction receipt, got %+v", receipt)
	}
	float, err := l.FloatBalance(ctx)
	if err != nil {
		t.Fatalf("float: %v", err)
	}
	if float != 15 {
		t.Fatalf("expected float 15 after draw, got %d", float)
	}
	held, err := l.HeldFor(ctx, 2)
	if err != nil {
		t.Fatalf("held: %v", err)
	}
	if held != 200 {
		t.Fatalf("expected contest 2 escrow untouched, got %d", held)
	}
}

func TestHoldRejectsInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.Deposit(ctx, "alice", 40); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := l.Hold(ctx, 1, "alice", 100); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := l.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 40 {
		t.Fatalf("expected failed hold to leave balance at 40, got %d", balance)
	}
}

func TestBalancesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := l.Deposit(ctx, "alice", 120); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen ledger: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Fatalf("close reopened: %v", err)
		}
	}()
	balance, err := reopened.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 120 {
		t.Fatalf("expected persisted balance 120, got %d", balance)
	}
}
