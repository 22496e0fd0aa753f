// Package sqlite implements the persistence gateway on an embedded SQLite
// database. Amounts are stored as decimal strings so no precision is lost
// between the ledger and storage.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	if tx.RecordedAt.IsZero() {
		tx.RecordedAt = time.Now()
	}

	const query = `INSERT INTO transactions (id, user_id, amount, kind, reason, occurred_on, occurred_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		userID,
		tx.Amount.String(),
		string(tx.Kind),
		tx.Reason,
		tx.OccurredOn.String(),
		tx.OccurredAt,
		tx.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"user_id", userID,
		"kind", tx.Kind,
		"reason", tx.Reason)

	return tx, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
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

func (r *Repository) SetBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	const query = `INSERT INTO users (id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, userID, balance.String(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

func (r *Repository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, userID).Scan(&raw)
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

func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	const query = `SELECT id, amount, kind, reason, occurred_on, occurred_at, recorded_at
		FROM transactions WHERE user_id = ?`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx                   core.Transaction
			amount, kind         string
			occurredOn, recorded string
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
			// A row with an unreadable date stays loaded; the aggregators
			// skip it via the zero date.
			if d, err := core.ParseDate(occurredOn); err == nil {
				tx.OccurredOn = d
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			tx.RecordedAt = t
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

var _ storage.Gateway = (*Repository)(nil)
