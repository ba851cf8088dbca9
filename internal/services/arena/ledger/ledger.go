// Package ledger defines the escrow/payout capability the engine drives.
// The engine never moves value itself; it instructs a Ledger to hold a
// deposit attributed to a contest, settle a contest's own escrow, or pay
// a dispute correction out of platform float.
package ledger

import (
	"context"
	"time"

	"github.com/crucible-games/arena/internal/platform/errors"
	"github.com/crucible-games/arena/internal/services/arena/domain"
)

var (
	// ErrInsufficientFunds indicates the source balance cannot cover a movement.
	ErrInsufficientFunds = errors.New(errors.CodeInsufficientFunds, "insufficient funds")
	// ErrLedgerFailure indicates the ledger could not complete an instructed movement.
	ErrLedgerFailure = errors.New(errors.CodeLedgerFailure, "ledger operation failed")
)

// Receipt acknowledges one executed fund movement.
type Receipt struct {
	ID        string
	ContestID int64
	Account   domain.AccountID
	Amount    int64
	Kind      Kind
	At        time.Time
}

// Kind labels the direction of a movement.
type Kind string

const (
	// KindHold moves funds from an account into contest escrow.
	KindHold Kind = "hold"
	// KindRelease moves funds from a contest's escrow to an account.
	KindRelease Kind = "release"
	// KindCorrection pays a dispute correction out of platform float.
	KindCorrection Kind = "correction"
)

// Movement is one pending payout instruction inside a settlement.
type Movement struct {
	Destination domain.AccountID
	Amount      int64
}

// Ledger is the value-transfer capability.
//
// Hold locks amount from the account's balance, attributed to the contest.
//
// Settle pays the movements out of the contest's own escrow, all or
// nothing: if the contest's held funds cannot cover the total, no balance
// changes and no receipt is issued. One contest's settlement can never
// consume another contest's deposits.
//
// Correct pays a dispute correction to the destination out of platform
// float (operator top-ups). Held deposits are not float, so a correction
// can never drain escrow that other contests still depend on.
//
// Each call is atomic: it fully applies or leaves balances unchanged.
type Ledger interface {
	Hold(ctx context.Context, contestID int64, account domain.AccountID, amount int64) (Receipt, error)
	Settle(ctx context.Context, contestID int64, movements []Movement) ([]Receipt, error)
	Correct(ctx context.Context, contestID int64, destination domain.AccountID, amount int64) (Receipt, error)
}
