package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/core"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/ledger"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/log"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/report"
)

type (
	addTransactionRequest struct {
		Amount string `json:"amount"`
		Kind   string `json:"kind"`
		Reason string `json:"reason"`
		Date   string `json:"date,omitempty"`
		Time   string `json:"time,omitempty"`
	}

	setBalanceRequest struct {
		Amount string `json:"amount"`
	}

	transactionDTO struct {
		ID         string `json:"id"`
		Amount     string `json:"amount"`
		Kind       string `json:"kind"`
		Reason     string `json:"reason"`
		Date       string `json:"date"`
		Time       string `json:"time,omitempty"`
		RecordedAt string `json:"recorded_at"`
	}

	mutationResponse struct {
		Success     bool            `json:"success"`
		Warning     string          `json:"warning,omitempty"`
		Transaction *transactionDTO `json:"transaction,omitempty"`
		Balance     string          `json:"balance"`
	}

	balanceResponse struct {
		Success    bool   `json:"success"`
		Balance    string `json:"balance"`
		NeedsSetup bool   `json:"needs_setup"`
	}

	bucketDTO struct {
		Label        string `json:"label"`
		Start        string `json:"start"`
		End          string `json:"end"`
		ExpenseTotal string `json:"expense_total"`
		IncomeTotal  string `json:"income_total"`
		NetTotal     string `json:"net_total"`
	}

	categoryDTO struct {
		Label string `json:"label"`
		Total string `json:"total"`
	}

	summaryDTO struct {
		TotalExpenses string `json:"total_expenses"`
		TotalIncome   string `json:"total_income"`
		NetSavings    string `json:"net_savings"`
		Count         int    `json:"count"`
		Average       string `json:"average"`
		Balance       string `json:"balance"`
	}

	balancePointDTO struct {
		Transaction transactionDTO `json:"transaction"`
		Balance     string         `json:"balance"`
	}
)

func toTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		ID:         tx.ID,
		Amount:     core.FormatAmount(tx.Amount),
		Kind:       tx.Kind.String(),
		Reason:     tx.Reason,
		Date:       tx.OccurredOn.String(),
		Time:       tx.OccurredAt,
		RecordedAt: tx.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// openSession resolves the user's ledger session or writes the failure
// response itself and returns nil.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) *ledger.Session {
	userID := sanitizeInput(r.PathValue("userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return nil
	}
	session, err := s.sessions.Open(r.Context(), userID)
	if err != nil {
		s.structured.LogError(r.Context(), "Failed to open ledger session", err,
			log.ComponentHTTP, log.OpHydrate, log.NewFields().WithTransaction(userID, "", "", ""))
		writeError(w, http.StatusBadGateway, "ledger unavailable")
		return nil
	}
	return session
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	draft := core.Draft{
		Amount:     amount,
		Kind:       core.Kind(sanitizeInput(req.Kind)),
		Reason:     sanitizeInput(req.Reason),
		OccurredAt: sanitizeInput(req.Time),
	}
	if d := sanitizeInput(req.Date); d != "" {
		occurredOn, err := core.ParseDate(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		draft.OccurredOn = occurredOn
	}

	tx, err := session.AddTransaction(r.Context(), draft)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrBalanceStale):
		// The transaction is durable; only the balance write failed. Report
		// success with a warning so the client can show the new state and
		// knows storage is behind.
		s.invalidateReports(session.UserID())
		dto := toTransactionDTO(tx)
		writeJSON(w, http.StatusOK, mutationResponse{
			Success:     true,
			Warning:     "transaction saved, balance not persisted",
			Transaction: &dto,
			Balance:     session.Balance().StringFixed(2),
		})
		return
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyReason),
		errors.Is(err, core.ErrReasonTooLong),
		errors.Is(err, core.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.structured.LogError(r.Context(), "Failed to add transaction", err,
			log.ComponentHTTP, log.OpAdd,
			log.NewFields().WithTransaction(session.UserID(), "", req.Kind, req.Amount))
		writeError(w, http.StatusBadGateway, "could not save transaction")
		return
	}

	s.structured.LogTransactionAdded(r.Context(), session.UserID(), tx.ID,
		tx.Kind.String(), core.FormatAmount(tx.Amount))
	s.invalidateReports(session.UserID())

	dto := toTransactionDTO(tx)
	writeJSON(w, http.StatusCreated, mutationResponse{
		Success:     true,
		Transaction: &dto,
		Balance:     session.Balance().StringFixed(2),
	})
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}
	id := sanitizeInput(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	err := session.RemoveTransaction(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrBalanceStale):
		s.invalidateReports(session.UserID())
		writeJSON(w, http.StatusOK, mutationResponse{
			Success: true,
			Warning: "transaction removed, balance not persisted",
			Balance: session.Balance().StringFixed(2),
		})
		return
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	default:
		s.structured.LogError(r.Context(), "Failed to remove transaction", err,
			log.ComponentHTTP, log.OpRemove,
			log.NewFields().WithTransaction(session.UserID(), id, "", ""))
		writeError(w, http.StatusBadGateway, "could not remove transaction")
		return
	}

	s.invalidateReports(session.UserID())
	writeJSON(w, http.StatusOK, mutationResponse{
		Success: true,
		Balance: session.Balance().StringFixed(2),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	txs := session.Transactions()
	if limit := parseLimit(r, len(txs)); limit < len(txs) {
		txs = session.Recent(limit)
	}

	dtos := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": dtos,
	})
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	var req setBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := core.ParseBalance(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	err = session.SetInitialBalance(r.Context(), amount)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrBalanceAlreadySet):
		writeError(w, http.StatusConflict, "initial balance already set")
		return
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	default:
		s.structured.LogError(r.Context(), "Failed to set initial balance", err,
			log.ComponentHTTP, log.OpSetBalance,
			log.NewFields().WithTransaction(session.UserID(), "", "", req.Amount))
		writeError(w, http.StatusBadGateway, "could not save balance")
		return
	}

	s.invalidateReports(session.UserID())
	writeJSON(w, http.StatusOK, balanceResponse{
		Success:    true,
		Balance:    session.Balance().StringFixed(2),
		NeedsSetup: false,
	})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Success:    true,
		Balance:    session.Balance().StringFixed(2),
		NeedsSetup: session.NeedsSetup(),
	})
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	granularity := report.Granularity(sanitizeInput(r.URL.Query().Get("granularity")))
	if granularity == "" {
		granularity = report.Monthly
	}
	if err := granularity.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "granularity must be weekly, monthly or yearly")
		return
	}

	key := session.UserID() + ":" + string(granularity)
	buckets, hit := s.periodCache.Get(key)
	if !hit {
		buckets = report.Periods(time.Now(), granularity, session.Transactions())
		s.periodCache.Set(key, buckets)
	}

	dtos := make([]bucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, bucketDTO{
			Label:        b.Label,
			Start:        b.Start.String(),
			End:          b.End.String(),
			ExpenseTotal: core.FormatAmount(b.ExpenseTotal),
			IncomeTotal:  core.FormatAmount(b.IncomeTotal),
			NetTotal:     b.NetTotal.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"granularity": string(granularity),
		"cached":      hit,
		"buckets":     dtos,
	})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	key := session.UserID() + ":categories"
	ranked, hit := s.categoryCache.Get(key)
	if !hit {
		ranked = report.TopCategories(session.Transactions())
		s.categoryCache.Set(key, ranked)
	}

	dtos := make([]categoryDTO, 0, len(ranked))
	for _, c := range ranked {
		dtos = append(dtos, categoryDTO{Label: c.Label, Total: c.Total.StringFixed(2)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"cached":     hit,
		"categories": dtos,
	})
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	stats := report.Summarize(session.Transactions())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": summaryDTO{
			TotalExpenses: core.FormatAmount(stats.TotalExpenses),
			TotalIncome:   core.FormatAmount(stats.TotalIncome),
			NetSavings:    stats.NetSavings.StringFixed(2),
			Count:         stats.Count,
			Average:       stats.Average.StringFixed(2),
			Balance:       session.Balance().StringFixed(2),
		},
	})
}

func (s *Server) handleRunningBalance(w http.ResponseWriter, r *http.Request) {
	session := s.openSession(w, r)
	if session == nil {
		return
	}

	txs := session.Transactions()
	stats := report.Summarize(txs)
	// The session only tracks the current balance; the starting point is
	// recovered by backing out the net effect of every transaction.
	initial := session.Balance().Sub(stats.NetSavings)

	points := report.RunningBalance(initial, txs)
	dtos := make([]balancePointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, balancePointDTO{
			Transaction: toTransactionDTO(p.Transaction),
			Balance:     p.Balance.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"initial_balance": initial.StringFixed(2),
		"points":          dtos,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID := sanitizeInput(r.PathValue("userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}
	s.sessions.Close(userID)
	s.invalidateReports(userID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
