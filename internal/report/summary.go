package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/ledger"
)

type (
	// Stats is the headline summary shown on the dashboard.
	Stats struct {
		TotalExpenses decimal.Decimal
		TotalIncome   decimal.Decimal
		NetSavings    decimal.Decimal
		Count         int
		Average       decimal.Decimal
	}

	// BalancePoint is one step of the running balance: the transaction and
	// the cumulative balance after applying it.
	BalancePoint struct {
		Transaction core.Transaction
		Balance     decimal.Decimal
	}
)

// Summarize computes overall totals across the full transaction set.
func Summarize(txs []core.Transaction) Stats {
	stats := Stats{
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
		Count:         len(txs),
		Average:       decimal.Zero,
	}
	sum := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case core.Debit:
			stats.TotalExpenses = stats.TotalExpenses.Add(tx.Amount)
		case core.Credit:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		}
		sum = sum.Add(tx.Amount)
	}
	stats.NetSavings = stats.TotalIncome.Sub(stats.TotalExpenses)
	if stats.Count > 0 {
		stats.Average = sum.Div(decimal.NewFromInt(int64(stats.Count)))
	}
	return stats
}

// RunningBalance replays the transaction set in chronological order
// (occurred-on date, then recorded-at) starting from the initial balance,
// producing the cumulative balance after each step. Export collaborators
// consume this series.
func RunningBalance(initial decimal.Decimal, txs []core.Transaction) []BalancePoint {
	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].OccurredOn.Equal(ordered[j].OccurredOn.Time) {
			return ordered[i].OccurredOn.Before(ordered[j].OccurredOn.Time)
		}
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	points := make([]BalancePoint, 0, len(ordered))
	balance := initial
	for _, tx := range ordered {
		balance = ledger.ApplyDelta(balance, tx.Amount, tx.Kind)
		points = append(points, BalancePoint{Transaction: tx, Balance: balance})
	}
	return points
}
