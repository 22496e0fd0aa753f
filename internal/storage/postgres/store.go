// Package postgres implements the persistence gateway on PostgreSQL, for
// deployments where the tracker shares a database server with other services.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// NewFromURL opens a connection and verifies it. The schema is expected to be
// managed externally (see the sqlite migrations for the reference layout).
func NewFromURL(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	if tx.RecordedAt.IsZero() {
		tx.RecordedAt = time.Now()
	}

	const query = `INSERT INTO transactions (id, user_id, amount, kind, reason, occurred_on, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		userID,
		tx.Amount.String(),
		string(tx.Kind),
		tx.Reason,
		tx.OccurredOn.String(),
		tx.OccurredAt,
		tx.RecordedAt.UTC(),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	const query = `INSERT INTO users (id, balance, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`
	_, err := s.db.ExecContext(ctx, query, userID, balance.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

func (s *Store) GetBalance(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get balance: %w", err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse stored balance %q: %w", raw, err)
	}
	return balance, true, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	const query = `SELECT id, amount, kind, reason, occurred_on, occurred_at, recorded_at
		FROM transactions WHERE user_id = $1`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx           core.Transaction
			amount, kind string
			occurredOn   string
			recorded     time.Time
		)
		if err := rows.Scan(&tx.ID, &amount, &kind, &tx.Reason, &occurredOn, &tx.OccurredAt, &recorded); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		tx.Kind = core.Kind(kind)
		if occurredOn != "" {
			if d, err := core.ParseDate(occurredOn); err == nil {
				tx.OccurredOn = d
			}
		}
		tx.RecordedAt = recorded
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

var _ storage.Gateway = (*Store)(nil)
