package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/log"
)

// transactionRequest is shared by create and update; update ignores UserID.
type transactionRequest struct {
	UserID      int64            `json:"userId"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	CategoryID  int64            `json:"categoryId"`
}

func (req transactionRequest) draft() core.TransactionDraft {
	return core.TransactionDraft{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
}

type userRequest struct {
	UserID int64 `json:"userId"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	id, err := s.svc.Ledger.Create(r.Context(), req.draft())
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message       string `json:"message"`
		TransactionID int64  `json:"transactionId"`
	}{"Transaction created successfully", id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	s.listTransactions(w, r, userID)
}

func (s *Server) handleListTransactionsByBody(w http.ResponseWriter, r *http.Request) {
	userID, ok := bodyUserID(w, r, log.OpList)
	if !ok {
		return
	}
	s.listTransactions(w, r, userID)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	items, err := s.svc.Ledger.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactions(items))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	n, err := s.svc.Ledger.Update(r.Context(), id, req.draft())
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	respondAffected(w, n, "Transaction updated successfully", "Transaction not found")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	n, err := s.svc.Ledger.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	respondAffected(w, n, "Transaction deleted successfully", "Transaction not found")
}

// bodyUserID decodes {"userId": n} and validates it.
func bodyUserID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, op, err)
		return 0, false
	}
	if err := requireUserID(req.UserID); err != nil {
		respondError(w, r, op, err)
		return 0, false
	}
	return req.UserID, true
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := bodyUserID(w, r, log.OpAggregate)
	if !ok {
		return
	}
	m, err := s.svc.Aggregates.Metrics(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, toMetrics(m))
}

func (s *Server) handleExpenseChart(w http.ResponseWriter, r *http.Request) {
	s.categoryChart(w, r, s.svc.Aggregates.ExpenseBreakdown)
}

func (s *Server) handleIncomeChart(w http.ResponseWriter, r *http.Request) {
	s.categoryChart(w, r, s.svc.Aggregates.IncomeBreakdown)
}

func (s *Server) categoryChart(w http.ResponseWriter, r *http.Request, breakdown func(context.Context, int64) ([]core.CategoryTotal, error)) {
	userID, ok := bodyUserID(w, r, log.OpAggregate)
	if !ok {
		return
	}
	items, err := breakdown(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryTotals(items))
}

func (s *Server) handleDailyNetSavingsChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := bodyUserID(w, r, log.OpAggregate)
	if !ok {
		return
	}
	items, err := s.svc.Aggregates.DailyNetSavings(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyNet(items))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, r, log.OpAggregate, err)
		return
	}
	d, err := s.svc.Aggregates.Dashboard(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Metrics:          toMetrics(d.Metrics),
		ExpenseBreakdown: toCategoryTotals(d.ExpenseBreakdown),
		IncomeBreakdown:  toCategoryTotals(d.IncomeBreakdown),
		DailyNetSavings:  toDailyNet(d.DailyNetSavings),
	})
}
