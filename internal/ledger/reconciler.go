package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
)

// ApplyDelta returns the balance after applying a transaction: credits add,
// debits subtract.
func ApplyDelta(balance, amount decimal.Decimal, kind core.Kind) decimal.Decimal {
	if kind == core.Credit {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// ReverseDelta is the algebraic inverse of ApplyDelta for the same amount and
// kind: removing a credit subtracts, removing a debit adds back. Add and
// remove always go through this pair rather than recomputing from the full
// transaction set, so removing right after adding restores the previous
// balance exactly.
func ReverseDelta(balance, amount decimal.Decimal, kind core.Kind) decimal.Decimal {
	if kind == core.Credit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}
