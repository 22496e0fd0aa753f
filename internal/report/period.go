// Package report turns a transaction set into chart-ready aggregates. Every
// function here is pure: it never mutates its input and is safe to re-run
// from any number of readers.
package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
)

// ErrInvalidGranularity is returned for a granularity outside the closed set.
var ErrInvalidGranularity = errors.New("invalid granularity")

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Bucket counts per granularity: last 12 weeks, last 12 months, last 5 years.
const (
	weeklyBuckets  = 12
	monthlyBuckets = 12
	yearlyBuckets  = 5
)

type (
	// Granularity selects the calendar alignment of period buckets.
	Granularity string

	// Bucket is one calendar-aligned window with its totals. Totals are
	// non-negative magnitudes except NetTotal, which is income minus
	// expenses and may be negative.
	Bucket struct {
		Label        string
		Start        core.Date
		End          core.Date
		ExpenseTotal decimal.Decimal
		IncomeTotal  decimal.Decimal
		NetTotal     decimal.Decimal
	}
)

func (g Granularity) Validate() error {
	switch g {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidGranularity
	}
}

// Periods buckets the transaction set into calendar windows ending at now,
// oldest bucket first. A transaction whose occurred-on date is missing is
// excluded from every bucket; an empty input still yields the full bucket
// list with zero totals. Weeks start on Sunday.
func Periods(now time.Time, g Granularity, txs []core.Transaction) []Bucket {
	today := core.DateOf(now)

	var buckets []Bucket
	switch g {
	case Weekly:
		buckets = make([]Bucket, 0, weeklyBuckets)
		for i := weeklyBuckets - 1; i >= 0; i-- {
			start := startOfWeek(core.DateOf(today.AddDate(0, 0, -7*i)))
			end := core.DateOf(start.AddDate(0, 0, 6))
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan 02") + " - " + end.Format("Jan 02"),
				Start: start,
				End:   end,
			})
		}
	case Yearly:
		buckets = make([]Bucket, 0, yearlyBuckets)
		for i := yearlyBuckets - 1; i >= 0; i-- {
			year := today.Year() - i
			start := core.NewDate(year, 1, 1)
			end := core.NewDate(year, 12, 31)
			buckets = append(buckets, Bucket{
				Label: start.Format("2006"),
				Start: start,
				End:   end,
			})
		}
	default: // Monthly
		buckets = make([]Bucket, 0, monthlyBuckets)
		for i := monthlyBuckets - 1; i >= 0; i-- {
			start := core.NewDate(today.Year(), int(today.Month())-i, 1)
			end := core.DateOf(start.AddDate(0, 1, -1))
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan 2006"),
				Start: start,
				End:   end,
			})
		}
	}

	for i := range buckets {
		buckets[i].ExpenseTotal = decimal.Zero
		buckets[i].IncomeTotal = decimal.Zero
	}

	for _, tx := range txs {
		if tx.OccurredOn.IsEmpty() {
			continue
		}
		for i := range buckets {
			if !inRange(tx.OccurredOn, buckets[i].Start, buckets[i].End) {
				continue
			}
			switch tx.Kind {
			case core.Debit:
				buckets[i].ExpenseTotal = buckets[i].ExpenseTotal.Add(tx.Amount)
			case core.Credit:
				buckets[i].IncomeTotal = buckets[i].IncomeTotal.Add(tx.Amount)
			}
		}
	}

	for i := range buckets {
		buckets[i].NetTotal = buckets[i].IncomeTotal.Sub(buckets[i].ExpenseTotal)
	}
	return buckets
}

// inRange reports whether d falls within [start, end] inclusive. Dates are
// normalized to midnight UTC, so boundary days compare equal, not before or
// after.
func inRange(d, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// startOfWeek returns the Sunday on or before d.
func startOfWeek(d core.Date) core.Date {
	return core.DateOf(d.AddDate(0, 0, -int(d.Weekday())))
}
