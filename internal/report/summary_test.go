package report

import (
	"testing"
	"time"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
)

func TestSummarize(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Debit, "100", "2025-06-01"),
		tx(core.Debit, "50", "2025-06-02"),
		tx(core.Credit, "300", "2025-06-03"),
	}

	stats := Summarize(txs)
	if !stats.TotalExpenses.Equal(dec("150")) {
		t.Errorf("TotalExpenses = %s, want 150", stats.TotalExpenses)
	}
	if !stats.TotalIncome.Equal(dec("300")) {
		t.Errorf("TotalIncome = %s, want 300", stats.TotalIncome)
	}
	if !stats.NetSavings.Equal(dec("150")) {
		t.Errorf("NetSavings = %s, want 150", stats.NetSavings)
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if !stats.Average.Equal(dec("150")) {
		t.Errorf("Average = %s, want 150", stats.Average)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats.Count != 0 {
		t.Errorf("Count = %d, want 0", stats.Count)
	}
	if !stats.Average.IsZero() || !stats.NetSavings.IsZero() {
		t.Errorf("empty summary should be all zero, got avg %s net %s",
			stats.Average, stats.NetSavings)
	}
}

func TestRunningBalanceReplaysChronologically(t *testing.T) {
	// Input is deliberately out of order; replay sorts by occurred-on date.
	txs := []core.Transaction{
		tx(core.Credit, "500", "2025-06-10"),
		tx(core.Debit, "200", "2025-06-01"),
	}

	points := RunningBalance(dec("1000"), txs)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if !points[0].Balance.Equal(dec("800")) {
		t.Errorf("first point = %s, want 800", points[0].Balance)
	}
	if !points[1].Balance.Equal(dec("1300")) {
		t.Errorf("second point = %s, want 1300", points[1].Balance)
	}
}

func TestRunningBalanceSameDayUsesRecordedAt(t *testing.T) {
	early := tx(core.Debit, "10", "2025-06-01")
	early.RecordedAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	late := tx(core.Credit, "30", "2025-06-01")
	late.RecordedAt = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

	points := RunningBalance(dec("0"), []core.Transaction{late, early})
	if !points[0].Balance.Equal(dec("-10")) {
		t.Errorf("first point = %s, want -10 (debit recorded first)", points[0].Balance)
	}
	if !points[1].Balance.Equal(dec("20")) {
		t.Errorf("second point = %s, want 20", points[1].Balance)
	}
}
