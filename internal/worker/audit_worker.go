// Package worker verifies ledger consistency out of band. Add and remove are
// two-phase operations that can leave the durable balance behind the ledger's
// in-memory value; the audit worker consumes the ledger event stream and
// flags every such divergence so it is never lost silently.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/amqp"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

// AuditResult is the outcome of one consistency check.
type AuditResult struct {
	UserID   string
	Reported decimal.Decimal
	Stored   decimal.Decimal
	Diverged bool
}

type AuditWorker struct {
	gateway storage.Gateway
}

func NewAuditWorker(gateway storage.Gateway) *AuditWorker {
	return &AuditWorker{gateway: gateway}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
func (w *AuditWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	reported, err := decimal.NewFromString(msg.Balance)
	if err != nil {
		return fmt.Errorf("parse reported balance %q: %w", msg.Balance, err)
	}

	result, err := w.VerifyBalance(ctx, msg.UserID, reported)
	if err != nil {
		return fmt.Errorf("verify balance: %w", err)
	}

	if result.Diverged {
		slog.WarnContext(ctx, "Durable balance diverged from ledger",
			"user_id", msg.UserID,
			"action", msg.Action,
			"transaction_id", msg.TransactionID,
			"reported", result.Reported.String(),
			"stored", result.Stored.String())
		return nil
	}

	slog.DebugContext(ctx, "Ledger balance verified",
		"user_id", msg.UserID,
		"action", msg.Action,
		"balance", result.Stored.String())
	return nil
}

// VerifyBalance compares the ledger's reported balance against durable
// storage. A missing stored balance counts as a divergence: the ledger thinks
// a balance exists but storage never captured it.
func (w *AuditWorker) VerifyBalance(ctx context.Context, userID string, reported decimal.Decimal) (AuditResult, error) {
	stored, set, err := w.gateway.GetBalance(ctx, userID)
	if err != nil {
		return AuditResult{}, fmt.Errorf("get stored balance: %w", err)
	}

	result := AuditResult{
		UserID:   userID,
		Reported: reported,
		Stored:   stored,
		Diverged: !set || !stored.Equal(reported),
	}
	return result, nil
}
