package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
)

// ErrNotFound is returned by gateways when the referenced record does not
// exist in durable storage.
var ErrNotFound = errors.New("record not found")

// Gateway is the durable store consulted by the ledger session.
//
// Implementations assign the transaction id at creation time; the returned
// transaction carries the stored id and recorded-at timestamp. The ledger
// never assumes ListTransactions results are ordered and sorts them itself.
type Gateway interface {
	// CreateTransaction durably stores a new transaction for the user and
	// returns the stored copy with its assigned id.
	CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)

	// DeleteTransaction removes a transaction by id.
	DeleteTransaction(ctx context.Context, id string) error

	// SetBalance persists the user's current balance.
	SetBalance(ctx context.Context, userID string, balance decimal.Decimal) error

	// GetBalance returns the stored balance and whether one has been
	// captured yet for this user.
	GetBalance(ctx context.Context, userID string) (balance decimal.Decimal, set bool, err error)

	// ListTransactions returns all transactions for the user, in no
	// particular order.
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
}
