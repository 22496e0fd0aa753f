package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/ledger"
	applog "github.com/ankitjangid02/Expense-Tracker-Web-App/internal/log"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sessions := ledger.NewManager(memory.New(), nil)
	logger := applog.New(applog.DefaultConfig())
	srv := NewServer(Options{
		Addr:            ":0",
		ReportCacheSize: 10,
		ReportCacheTTL:  time.Minute,
	}, sessions, logger)

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { srv.cacheManager.Stop() })
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestBalanceSetupFlow(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	// Fresh user needs setup.
	resp, body := doJSON(t, http.MethodGet, base+"/balance", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["needs_setup"] != true {
		t.Fatalf("needs_setup = %v, want true", body["needs_setup"])
	}

	resp, body = doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "1000"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set balance status = %d: %v", resp.StatusCode, body)
	}
	if body["balance"] != "1000.00" {
		t.Errorf("balance = %v, want 1000.00", body["balance"])
	}

	// Second attempt conflicts.
	resp, _ = doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "500"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second set balance status = %d, want 409", resp.StatusCode)
	}
}

func TestTransactionFlow(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "1000"})

	resp, body := doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "200",
		"kind":   "debit",
		"reason": "Groceries",
		"date":   "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d: %v", resp.StatusCode, body)
	}
	if body["balance"] != "800.00" {
		t.Errorf("balance after debit = %v, want 800.00", body["balance"])
	}
	tx := body["transaction"].(map[string]any)
	txID := tx["id"].(string)
	if tx["amount"] != "200.00" {
		t.Errorf("amount = %v, want 200.00", tx["amount"])
	}

	resp, body = doJSON(t, http.MethodGet, base+"/transactions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if list := body["transactions"].([]any); len(list) != 1 {
		t.Errorf("listed %d transactions, want 1", len(list))
	}

	resp, body = doJSON(t, http.MethodDelete, base+"/transactions/"+txID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status = %d: %v", resp.StatusCode, body)
	}
	if body["balance"] != "1000.00" {
		t.Errorf("balance after remove = %v, want 1000.00 restored", body["balance"])
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/transactions/"+txID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("remove again status = %d, want 404", resp.StatusCode)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	_, ts := newTestServer(t)
	url := ts.URL + "/api/users/alice/transactions"

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "negative amount", body: map[string]string{"amount": "-5", "kind": "debit", "reason": "x"}},
		{name: "zero amount", body: map[string]string{"amount": "0", "kind": "debit", "reason": "x"}},
		{name: "missing reason", body: map[string]string{"amount": "5", "kind": "debit"}},
		{name: "bad kind", body: map[string]string{"amount": "5", "kind": "transfer", "reason": "x"}},
		{name: "bad date", body: map[string]string{"amount": "5", "kind": "debit", "reason": "x", "date": "01/06/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, url, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestPeriodReport(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	today := time.Now().UTC().Format("2006-01-02")
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "100", "kind": "debit", "reason": "rent", "date": today,
	})

	resp, body := doJSON(t, http.MethodGet, base+"/reports/periods?granularity=monthly", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, body)
	}
	buckets := body["buckets"].([]any)
	if len(buckets) != 12 {
		t.Fatalf("buckets = %d, want 12", len(buckets))
	}
	newest := buckets[11].(map[string]any)
	if newest["expense_total"] != "100.00" {
		t.Errorf("newest bucket expense = %v, want 100.00", newest["expense_total"])
	}

	resp, _ = doJSON(t, http.MethodGet, base+"/reports/periods?granularity=daily", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad granularity status = %d, want 400", resp.StatusCode)
	}
}

func TestPeriodReportCacheInvalidation(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"
	url := base + "/reports/periods?granularity=weekly"

	_, first := doJSON(t, http.MethodGet, url, nil)
	if first["cached"] != false {
		t.Error("first read should be a cache miss")
	}
	_, second := doJSON(t, http.MethodGet, url, nil)
	if second["cached"] != true {
		t.Error("second read should be a cache hit")
	}

	// A mutation drops the cached reports.
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "10", "kind": "debit", "reason": "snack",
	})
	_, third := doJSON(t, http.MethodGet, url, nil)
	if third["cached"] != false {
		t.Error("read after mutation should be a cache miss")
	}
}

func TestCategoryReport(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "100", "kind": "debit", "reason": "Coffee",
	})
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "50", "kind": "debit", "reason": "coffee",
	})

	resp, body := doJSON(t, http.MethodGet, base+"/reports/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cats := body["categories"].([]any)
	if len(cats) != 1 {
		t.Fatalf("categories = %d, want 1", len(cats))
	}
	top := cats[0].(map[string]any)
	if top["label"] != "coffee" || top["total"] != "150.00" {
		t.Errorf("top category = %v, want coffee 150.00", top)
	}
}

func TestCategoryReportSentinel(t *testing.T) {
	_, ts := newTestServer(t)
	_, body := doJSON(t, http.MethodGet, ts.URL+"/api/users/nobody/reports/categories", nil)
	cats := body["categories"].([]any)
	if len(cats) != 1 {
		t.Fatalf("categories = %d, want sentinel only", len(cats))
	}
	if cats[0].(map[string]any)["label"] != "No Expenses" {
		t.Errorf("sentinel = %v", cats[0])
	}
}

func TestSummaryReport(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "1000"})
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "200", "kind": "debit", "reason": "rent",
	})
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "500", "kind": "credit", "reason": "salary",
	})

	resp, body := doJSON(t, http.MethodGet, base+"/reports/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	summary := body["summary"].(map[string]any)
	if summary["total_expenses"] != "200.00" {
		t.Errorf("total_expenses = %v", summary["total_expenses"])
	}
	if summary["net_savings"] != "300.00" {
		t.Errorf("net_savings = %v", summary["net_savings"])
	}
	if summary["balance"] != "1300.00" {
		t.Errorf("balance = %v, want 1300.00", summary["balance"])
	}
	if summary["count"] != float64(2) {
		t.Errorf("count = %v, want 2", summary["count"])
	}
}

func TestRunningBalanceReport(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "1000"})
	doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
		"amount": "200", "kind": "debit", "reason": "rent", "date": "2025-06-01",
	})

	resp, body := doJSON(t, http.MethodGet, base+"/reports/running-balance", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["initial_balance"] != "1000.00" {
		t.Errorf("initial_balance = %v, want 1000.00", body["initial_balance"])
	}
	points := body["points"].([]any)
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].(map[string]any)["balance"] != "800.00" {
		t.Errorf("point balance = %v, want 800.00", points[0])
	}
}

func TestLogout(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	doJSON(t, http.MethodPut, base+"/balance", map[string]string{"amount": "100"})
	resp, _ := doJSON(t, http.MethodPost, base+"/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	// State is durable: a fresh session rehydrates the balance.
	_, body := doJSON(t, http.MethodGet, base+"/balance", nil)
	if body["balance"] != "100.00" {
		t.Errorf("balance after logout = %v, want 100.00", body["balance"])
	}
}

func TestListTransactionsLimit(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/api/users/alice"

	for i := 0; i < 5; i++ {
		doJSON(t, http.MethodPost, base+"/transactions", map[string]string{
			"amount": "1", "kind": "debit", "reason": fmt.Sprintf("item-%d", i),
		})
	}

	_, body := doJSON(t, http.MethodGet, base+"/transactions?limit=3", nil)
	if list := body["transactions"].([]any); len(list) != 3 {
		t.Errorf("listed %d transactions, want 3", len(list))
	}
}
