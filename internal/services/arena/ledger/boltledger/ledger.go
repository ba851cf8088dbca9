// Package boltledger implements the escrow ledger on a BoltDB file. Every
// hold, settlement, and correction applies inside one bbolt transaction,
// so a movement either fully commits or leaves balances untouched.
package boltledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/ledger"
)

const (
	balancesBucket = "ledger:balances"
	holdsBucket    = "ledger:holds"
	receiptsBucket = "ledger:receipts"
	poolBucket     = "ledger:pool"
	floatBucket    = "ledger:float"
)

var (
	poolKey  = []byte("pool")
	floatKey = []byte("float")
)

// Ledger is a BoltDB-backed escrow ledger. Held deposits are tracked per
// contest; the pool is the aggregate view (all holds plus float), while
// corrections may draw only the float.
type Ledger struct {
	db    *bolt.DB
	clock func() time.Time
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bolt.Open(cleanPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{
			balancesBucket,
			holdsBucket,
			receiptsBucket,
			poolBucket,
			floatBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("create %s bucket: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Ledger{db: db, clock: time.Now}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Deposit credits an account balance. Operator-facing.
func (l *Ledger) Deposit(_ context.Context, account domain.AccountID, amount int64) error {
	if amount <= 0 {
		return ledger.ErrLedgerFailure
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		balances := tx.Bucket([]byte(balancesBucket))
		balance := bytesToInt64(balances.Get([]byte(account)))
		return balances.Put([]byte(account), int64ToBytes(balance+amount))
	})
}

// TopUp injects platform float so dispute corrections can pay out without
// touching any contest's escrow.
func (l *Ledger) TopUp(_ context.Context, amount int64) error {
	if amount <= 0 {
		return ledger.ErrLedgerFailure
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		if err := adjust(tx, floatBucket, floatKey, amount); err != nil {
			return err
		}
		return adjust(tx, poolBucket, poolKey, amount)
	})
}

// Balance returns the account's spendable balance.
func (l *Ledger) Balance(_ context.Context, account domain.AccountID) (int64, error) {
	var balance int64
	err := l.db.View(func(tx *bolt.Tx) error {
		balance = bytesToInt64(tx.Bucket([]byte(balancesBucket)).Get([]byte(account)))
		return nil
	})
	return balance, err
}

// PoolBalance returns the aggregate escrow pool: held deposits plus float.
func (l *Ledger) PoolBalance(_ context.Context) (int64, error) {
	var balance int64
	err := l.db.View(func(tx *bolt.Tx) error {
		balance = bytesToInt64(tx.Bucket([]byte(poolBucket)).Get(poolKey))
		return nil
	})
	return balance, err
}

// FloatBalance returns the platform float available to corrections.
func (l *Ledger) FloatBalance(_ context.Context) (int64, error) {
	var balance int64
	err := l.db.View(func(tx *bolt.Tx) error {
		balance = bytesToInt64(tx.Bucket([]byte(floatBucket)).Get(floatKey))
		return nil
	})
	return balance, err
}

// HeldFor returns the total deposits attributed to a contest.
func (l *Ledger) HeldFor(_ context.Context, contestID int64) (int64, error) {
	var held int64
	err := l.db.View(func(tx *bolt.Tx) error {
		held = bytesToInt64(tx.Bucket([]byte(holdsBucket)).Get(int64ToBytes(contestID)))
		return nil
	})
	return held, err
}

// Hold implements ledger.Ledger.
func (l *Ledger) Hold(_ context.Context, contestID int64, account domain.AccountID, amount int64) (ledger.Receipt, error) {
	if amount <= 0 {
		return ledger.Receipt{}, ledger.ErrLedgerFailure
	}
	receipt := ledger.Receipt{
		ID:        uuid.NewString(),
		ContestID: contestID,
		Account:   account,
		Amount:    amount,
		Kind:      ledger.KindHold,
		At:        l.clock().UTC(),
	}
	err := l.db.Update(func(tx *bolt.Tx) error {
		balances := tx.Bucket([]byte(balancesBucket))
		balance := bytesToInt64(balances.Get([]byte(account)))
		if balance < amount {
			return ledger.ErrInsufficientFunds
		}
		if err := balances.Put([]byte(account), int64ToBytes(balance-amount)); err != nil {
			return err
		}

		holds := tx.Bucket([]byte(holdsBucket))
		held := bytesToInt64(holds.Get(int64ToBytes(contestID)))
		if err := holds.Put(int64ToBytes(contestID), int64ToBytes(held+amount)); err != nil {
			return err
		}

		if err := adjust(tx, poolBucket, poolKey, amount); err != nil {
			return err
		}

		return putReceipt(tx, receipt)
	})
	if err != nil {
		return ledger.Receipt{}, err
	}
	return receipt, nil
}

// Settle implements ledger.Ledger. The movements draw only the contest's
// own escrow, inside one transaction; a total beyond the contest's held
// funds aborts with nothing moved.
func (l *Ledger) Settle(_ context.Context, contestID int64, movements []ledger.Movement) ([]ledger.Receipt, error) {
	var total int64
	for _, mv := range movements {
		if mv.Amount < 0 {
			return nil, ledger.ErrLedgerFailure
		}
		total += mv.Amount
	}

	receipts := make([]ledger.Receipt, 0, len(movements))
	err := l.db.Update(func(tx *bolt.Tx) error {
		holds := tx.Bucket([]byte(holdsBucket))
		held := bytesToInt64(holds.Get(int64ToBytes(contestID)))
		if held < total {
			return ledger.ErrInsufficientFunds
		}
		if err := holds.Put(int64ToBytes(contestID), int64ToBytes(held-total)); err != nil {
			return err
		}
		if err := adjust(tx, poolBucket, poolKey, -total); err != nil {
			return err
		}

		balances := tx.Bucket([]byte(balancesBucket))
		for _, mv := range movements {
			if mv.Amount == 0 {
				continue
			}
			balance := bytesToInt64(balances.Get([]byte(mv.Destination)))
			if err := balances.Put([]byte(mv.Destination), int64ToBytes(balance+mv.Amount)); err != nil {
				return err
			}
			receipt := ledger.Receipt{
				ID:        uuid.NewString(),
				ContestID: contestID,
				Account:   mv.Destination,
				Amount:    mv.Amount,
				Kind:      ledger.KindRelease,
				At:        l.clock().UTC(),
			}
			if err := putReceipt(tx, receipt); err != nil {
				return err
			}
			receipts = append(receipts, receipt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// Correct implements ledger.Ledger. Corrections draw only platform float,
// never held deposits.
func (l *Ledger) Correct(_ context.Context, contestID int64, destination domain.AccountID, amount int64) (ledger.Receipt, error) {
	if amount <= 0 {
		return ledger.Receipt{}, ledger.ErrLedgerFailure
	}
	receipt := ledger.Receipt{
		ID:        uuid.NewString(),
		ContestID: contestID,
		Account:   destination,
		Amount:    amount,
		Kind:      ledger.KindCorrection,
		At:        l.clock().UTC(),
	}
	err := l.db.Update(func(tx *bolt.Tx) error {
		float := tx.Bucket([]byte(floatBucket))
		available := bytesToInt64(float.Get(floatKey))
		if available < amount {
			return ledger.ErrInsufficientFunds
		}
		if err := float.Put(floatKey, int64ToBytes(available-amount)); err != nil {
			return err
		}
		if err := adjust(tx, poolBucket, poolKey, -amount); err != nil {
			return err
		}

		balances := tx.Bucket([]byte(balancesBucket))
		balance := bytesToInt64(balances.Get([]byte(destination)))
		if err := balances.Put([]byte(destination), int64ToBytes(balance+amount)); err != nil {
			return err
		}

		return putReceipt(tx, receipt)
	})
	if err != nil {
		return ledger.Receipt{}, err
	}
	return receipt, nil
}

func adjust(tx *bolt.Tx, bucket string, key []byte, delta int64) error {
	b := tx.Bucket([]byte(bucket))
	return b.Put(key, int64ToBytes(bytesToInt64(b.Get(key))+delta))
}

func putReceipt(tx *bolt.Tx, receipt ledger.Receipt) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	return tx.Bucket([]byte(receiptsBucket)).Put([]byte(receipt.ID), payload)
}

func int64ToBytes(i int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(i))
	return buf
}

func bytesToInt64(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
