package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
)

// TopCategoryLimit bounds the ranking. Categories past the limit are dropped
// entirely rather than merged into an "other" bucket; that lossy cut is
// intentional and documented.
const TopCategoryLimit = 10

// NoExpensesLabel is the sentinel category returned when no debit qualifies,
// so chart consumers never receive an empty series.
const NoExpensesLabel = "No Expenses"

// CategoryTotal is one ranked expense category.
type CategoryTotal struct {
	Label string
	Total decimal.Decimal
}

// TopCategories ranks debit transactions by category. The category key is the
// reason lowercased and trimmed; transactions with an empty reason or a
// non-positive amount are excluded. Totals sort descending, ties keep
// first-encountered order, and only the top ten survive.
func TopCategories(txs []core.Transaction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, tx := range txs {
		if tx.Kind != core.Debit {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(tx.Reason))
		if key == "" {
			continue
		}
		if tx.Amount.Cmp(decimal.Zero) <= 0 {
			continue
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] = totals[key].Add(tx.Amount)
	}

	ranked := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, CategoryTotal{Label: key, Total: totals[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.Cmp(ranked[j].Total) > 0
	})

	if len(ranked) == 0 {
		return []CategoryTotal{{Label: NoExpensesLabel, Total: decimal.NewFromInt(1)}}
	}
	if len(ranked) > TopCategoryLimit {
		ranked = ranked[:TopCategoryLimit]
	}
	return ranked
}
