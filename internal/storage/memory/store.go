// Package memory provides an in-memory persistence gateway, used as the
// default backend and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	balances     map[string]decimal.Decimal
	balanceSet   map[string]bool
	transactions map[string][]core.Transaction // keyed by user id
	owners       map[string]string             // transaction id -> user id
}

func New() *Store {
	return &Store{
		balances:     make(map[string]decimal.Decimal),
		balanceSet:   make(map[string]bool),
		transactions: make(map[string][]core.Transaction),
		owners:       make(map[string]string),
	}
}

// CreateTransaction assigns an id and recorded-at timestamp and stores a copy.
func (s *Store) CreateTransaction(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.NewString()
	if tx.RecordedAt.IsZero() {
		tx.RecordedAt = time.Now()
	}
	s.transactions[userID] = append(s.transactions[userID], tx)
	s.owners[tx.ID] = userID
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.owners[id]
	if !ok {
		return storage.ErrNotFound
	}
	txs := s.transactions[userID]
	for i, tx := range txs {
		if tx.ID == id {
			s.transactions[userID] = append(txs[:i:i], txs[i+1:]...)
			delete(s.owners, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) SetBalance(_ context.Context, userID string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[userID] = balance
	s.balanceSet[userID] = true
	return nil
}

func (s *Store) GetBalance(_ context.Context, userID string) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.balanceSet[userID] {
		return decimal.Zero, false, nil
	}
	return s.balances[userID], true, nil
}

// ListTransactions returns a copy so callers can't modify internal state.
func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.transactions[userID]
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

var _ storage.Gateway = (*Store)(nil)
