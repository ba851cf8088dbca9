package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crucible-games/arena/internal/services/arena/domain"
)

// Memory is an in-process Ledger backed by maps. It backs tests and single
// node deployments that do not need durable balances.
type Memory struct {
	mu       sync.Mutex
	balances map[domain.AccountID]int64
	held     map[int64]int64
	float    int64
	clock    func() time.Time

	receipts []Receipt
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[domain.AccountID]int64),
		held:     make(map[int64]int64),
		clock:    time.Now,
	}
}

// Deposit credits an account balance. Operator-facing; not part of the
// engine's capability surface.
func (m *Memory) Deposit(account domain.AccountID, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] += amount
}

// TopUp injects platform float so dispute corrections can pay out without
// touching any contest's escrow.
func (m *Memory) TopUp(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.float += amount
}

// Balance returns the account's spendable balance.
func (m *Memory) Balance(account domain.AccountID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account]
}

// PoolBalance returns the aggregate escrow pool: every contest's held
// deposits plus the platform float.
func (m *Memory) PoolBalance() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.float
	for _, held := range m.held {
		total += held
	}
	return total
}

// FloatBalance returns the platform float available to corrections.
func (m *Memory) FloatBalance() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.float
}

// HeldFor returns the total deposits attributed to a contest.
func (m *Memory) HeldFor(contestID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[contestID]
}

// Receipts returns the executed movements in order.
func (m *Memory) Receipts() []Receipt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Receipt, len(m.receipts))
	copy(out, m.receipts)
	return out
}

// Hold implements Ledger.
func (m *Memory) Hold(_ context.Context, contestID int64, account domain.AccountID, amount int64) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount <= 0 {
		return Receipt{}, ErrLedgerFailure
	}
	if m.balances[account] < amount {
		return Receipt{}, ErrInsufficientFunds
	}
	m.balances[account] -= amount
	m.held[contestID] += amount
	receipt := Receipt{
		ID:        uuid.NewString(),
		ContestID: contestID,
		Account:   account,
		Amount:    amount,
		Kind:      KindHold,
		At:        m.clock(),
	}
	m.receipts = append(m.receipts, receipt)
	return receipt, nil
}

// Settle implements Ledger. The movements draw only the contest's own
// escrow; if the total exceeds it, nothing moves.
func (m *Memory) Settle(_ context.Context, contestID int64, movements []Movement) ([]Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, mv := range movements {
		if mv.Amount < 0 {
			return nil, ErrLedgerFailure
		}
		total += mv.Amount
	}
	if m.held[contestID] < total {
		return nil, ErrInsufficientFunds
	}

	m.held[contestID] -= total
	receipts := make([]Receipt, 0, len(movements))
	for _, mv := range movements {
		if mv.Amount == 0 {
			continue
		}
		m.balances[mv.Destination] += mv.Amount
		receipt := Receipt{
			ID:        uuid.NewString(),
			ContestID: contestID,
			Account:   mv.Destination,
			Amount:    mv.Amount,
			Kind:      KindRelease,
			At:        m.clock(),
		}
		m.receipts = append(m.receipts, receipt)
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// Correct implements Ledger. Corrections draw only platform float, never
// held deposits.
func (m *Memory) Correct(_ context.Context, contestID int64, destination domain.AccountID, amount int64) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount <= 0 {
		return Receipt{}, ErrLedgerFailure
	}
	if m.float < amount {
		return Receipt{}, ErrInsufficientFunds
	}
	m.float -= amount
	m.balances[destination] += amount
	receipt := Receipt{
		ID:        uuid.NewString(),
		ContestID: contestID,
		Account:   destination,
		Amount:    amount,
		Kind:      KindCorrection,
		At:        m.clock(),
	}
	m.receipts = append(m.receipts, receipt)
	return receipt, nil
}
