package memory

import (
	"context"
	"sync"

	"github.com/aquatap/kiosk/internal/domain/ledger"
)

var _ ledger.Repository = (*LedgerStore)(nil)

// LedgerStore is an in-memory append-only transaction log. IDs are assigned
// sequentially on append, so ID order equals append order.
type LedgerStore struct {
	mu    sync.RWMutex
	txs   []ledger.Transaction
	maxTx int
}

// NewLedgerStore creates a LedgerStore. maxTx of 0 means unbounded.
func NewLedgerStore(maxTx int) *LedgerStore {
	return &LedgerStore{maxTx: maxTx}
}

// Append assigns the next sequential ID and stores a copy of the transaction.
func (s *LedgerStore) Append(_ context.Context, t *ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxTx > 0 && len(s.txs) >= s.maxTx {
		return ledger.ErrLedgerFull
	}

	t.ID = int64(len(s.txs)) + 1
	s.txs = append(s.txs, *t)
	return nil
}

// List returns a copy of all transactions in append order.
func (s *LedgerStore) List(_ context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// ListByUser returns the given user's transactions in append order.
func (s *LedgerStore) ListByUser(_ context.Context, userID int64) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Transaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Count returns the number of recorded transactions.
func (s *LedgerStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs), nil
}
