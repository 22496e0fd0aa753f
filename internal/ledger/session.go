// Package ledger owns the in-memory ledger for one user session: the current
// balance and the transaction set, kept consistent with the persistence
// gateway through two-phase add/remove operations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

// Event actions published after successful mutations.
const (
	ActionAdd        = "add"
	ActionRemove     = "remove"
	ActionSetBalance = "set_balance"
)

var (
	// ErrNotFound is returned when removing a transaction id that is not
	// present in the session.
	ErrNotFound = errors.New("transaction not found")

	// ErrBalanceStale signals a partial failure: the transaction mutation
	// was durably stored and applied locally, but persisting the new
	// balance failed. The in-memory balance is ahead of storage; the
	// caller decides whether to retry, nothing is rolled back.
	ErrBalanceStale = errors.New("durable balance out of sync with ledger")

	// ErrBalanceAlreadySet is returned when the one-time initial balance
	// has already been captured for this session.
	ErrBalanceAlreadySet = errors.New("initial balance already set")
)

// EventPublisher receives a lightweight notification after each successful
// ledger mutation. Publishing is best-effort: failures are logged, never
// surfaced to the caller.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, userID, transactionID, action string, balance decimal.Decimal) error
}

// Session is the sole authority over one user's in-memory ledger. All
// balance-mutating operations are serialized by an internal mutex, so two
// in-flight add/remove calls can never interleave their read-modify-write
// on the balance. Reads take the same lock and return copies.
type Session struct {
	mu           sync.Mutex
	userID       string
	gateway      storage.Gateway
	events       EventPublisher
	balance      decimal.Decimal
	balanceSet   bool
	transactions []core.Transaction
}

// Open hydrates a session from the gateway: all stored transactions sorted by
// recorded-at descending, plus the stored balance if one was captured.
func Open(ctx context.Context, userID string, gateway storage.Gateway, events EventPublisher) (*Session, error) {
	txs, err := gateway.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	// The gateway contract leaves ordering to us.
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].RecordedAt.After(txs[j].RecordedAt)
	})

	balance, set, err := gateway.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	slog.InfoContext(ctx, "Ledger session opened",
		"user_id", userID,
		"transactions", len(txs),
		"balance_set", set)

	return &Session{
		userID:       userID,
		gateway:      gateway,
		events:       events,
		balance:      balance,
		balanceSet:   set,
		transactions: txs,
	}, nil
}

// UserID returns the owning user id.
func (s *Session) UserID() string {
	return s.userID
}

// AddTransaction validates the draft, durably creates the transaction and
// applies the balance delta.
//
// If the gateway create fails, nothing changes locally. If the create
// succeeds but persisting the new balance fails, the transaction stays in the
// session and the local balance is updated anyway; the call returns
// ErrBalanceStale so the divergence is surfaced rather than swallowed.
func (s *Session) AddTransaction(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	occurredOn := draft.OccurredOn
	if occurredOn.IsEmpty() {
		occurredOn = core.DateOf(now)
	}
	occurredAt := draft.OccurredAt
	if occurredAt == "" {
		occurredAt = now.Format("15:04:05")
	}

	tx := core.Transaction{
		Amount:     draft.Amount,
		Kind:       draft.Kind,
		Reason:     strings.TrimSpace(draft.Reason),
		OccurredOn: occurredOn,
		OccurredAt: occurredAt,
		RecordedAt: now,
	}

	stored, err := s.gateway.CreateTransaction(ctx, s.userID, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	// Most recently recorded first, matching hydration order.
	s.transactions = append([]core.Transaction{stored}, s.transactions...)
	newBalance := ApplyDelta(s.balance, stored.Amount, stored.Kind)

	if err := s.gateway.SetBalance(ctx, s.userID, newBalance); err != nil {
		s.balance = newBalance
		slog.WarnContext(ctx, "Balance not persisted after add",
			"user_id", s.userID,
			"transaction_id", stored.ID,
			"error", err)
		return stored, fmt.Errorf("%w: %v", ErrBalanceStale, err)
	}
	s.balance = newBalance

	s.publish(ctx, stored.ID, ActionAdd, newBalance)
	return stored, nil
}

// RemoveTransaction durably deletes the transaction and applies the exact
// inverse balance delta. An unknown id returns ErrNotFound with no state
// change. Partial failure behaves as in AddTransaction.
func (s *Session) RemoveTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, tx := range s.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	tx := s.transactions[idx]

	if err := s.gateway.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.transactions = append(s.transactions[:idx:idx], s.transactions[idx+1:]...)
	newBalance := ReverseDelta(s.balance, tx.Amount, tx.Kind)

	if err := s.gateway.SetBalance(ctx, s.userID, newBalance); err != nil {
		s.balance = newBalance
		slog.WarnContext(ctx, "Balance not persisted after remove",
			"user_id", s.userID,
			"transaction_id", id,
			"error", err)
		return fmt.Errorf("%w: %v", ErrBalanceStale, err)
	}
	s.balance = newBalance

	s.publish(ctx, id, ActionRemove, newBalance)
	return nil
}

// SetInitialBalance captures the one-time starting balance. It is only valid
// before any transactions exist and before a balance was captured.
func (s *Session) SetInitialBalance(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balanceSet || len(s.transactions) > 0 {
		return ErrBalanceAlreadySet
	}
	if err := s.gateway.SetBalance(ctx, s.userID, amount); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	s.balance = amount
	s.balanceSet = true

	s.publish(ctx, "", ActionSetBalance, amount)
	return nil
}

// Balance returns the current in-memory balance.
func (s *Session) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// NeedsSetup reports whether the initial balance is still to be captured.
func (s *Session) NeedsSetup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.balanceSet
}

// Transactions returns a copy of the transaction set, most recently recorded
// first.
func (s *Session) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Recent returns the n most recently recorded transactions.
func (s *Session) Recent(n int) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.transactions) {
		n = len(s.transactions)
	}
	out := make([]core.Transaction, n)
	copy(out, s.transactions[:n])
	return out
}

func (s *Session) publish(ctx context.Context, transactionID, action string, balance decimal.Decimal) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, s.userID, transactionID, action, balance); err != nil {
		// The user action already succeeded; the event stream is advisory.
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"user_id", s.userID,
			"transaction_id", transactionID,
			"action", action,
			"error", err)
	}
}
