package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type categoryResponse struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
}

type transactionResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"categoryId"`
}

type goalResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	GoalName      string  `json:"goalName"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	CategoryID    int64   `json:"categoryId"`
}

type reportResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ReportType    string    `json:"reportType"`
	GeneratedDate time.Time `json:"generatedDate"`
}

type metricsResponse struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetSavings    float64 `json:"netSavings"`
}

type categoryTotalResponse struct {
	CategoryName string  `json:"categoryName"`
	TotalAmount  float64 `json:"totalAmount"`
}

type dailyNetResponse struct {
	Day           string  `json:"day"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetSavings    float64 `json:"netSavings"`
}

type dashboardResponse struct {
	Metrics          metricsResponse         `json:"metrics"`
	ExpenseBreakdown []categoryTotalResponse `json:"expenseBreakdown"`
	IncomeBreakdown  []categoryTotalResponse `json:"incomeBreakdown"`
	DailyNetSavings  []dailyNetResponse      `json:"dailyNetSavings"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toUser(u core.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toCategories(items []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, categoryResponse{ID: c.ID, CategoryName: c.Name})
	}
	return out
}

func toTransactions(items []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, transactionResponse{
			ID:          t.ID,
			UserID:      t.UserID,
			Amount:      t.Amount.Float(),
			Date:        t.Date.UTC().Format(core.DateLayout),
			Description: t.Description,
			CategoryID:  t.CategoryID,
		})
	}
	return out
}

func toGoal(g core.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		GoalName:      g.Name,
		TargetAmount:  g.Target.Float(),
		CurrentAmount: g.Current.Float(),
		CategoryID:    g.CategoryID,
	}
}

func toGoals(items []core.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGoal(g))
	}
	return out
}

func toReports(items []core.Report) []reportResponse {
	out := make([]reportResponse, 0, len(items))
	for _, r := range items {
		out = append(out, reportResponse{ID: r.ID, UserID: r.UserID, ReportType: r.Type, GeneratedDate: r.GeneratedDate})
	}
	return out
}

func toMetrics(m core.Metrics) metricsResponse {
	return metricsResponse{TotalIncome: m.TotalIncome, TotalExpenses: m.TotalExpenses, NetSavings: m.NetSavings}
}

func toCategoryTotals(items []core.CategoryTotal) []categoryTotalResponse {
	out := make([]categoryTotalResponse, 0, len(items))
	for _, c := range items {
		out = append(out, categoryTotalResponse{CategoryName: c.CategoryName, TotalAmount: c.TotalAmount})
	}
	return out
}

func toDailyNet(items []core.DailyNet) []dailyNetResponse {
	out := make([]dailyNetResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dailyNetResponse{Day: d.Day, TotalIncome: d.TotalIncome, TotalExpenses: d.TotalExpenses, NetSavings: d.NetSavings})
	}
	return out
}
