package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// AggregationService computes read-only dashboard figures from the ledger.
type AggregationService struct {
	store *storage.Store
}

func NewAggregationService(store *storage.Store) *AggregationService {
	return &AggregationService{store: store}
}

func (s *AggregationService) Metrics(ctx context.Context, userID int64) (core.Metrics, error) {
	income, expenses, err := s.store.Queries().SumIncomeExpenses(ctx, userID)
	if err != nil {
		return core.Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	return core.NewMetrics(core.Money{Cents: income}, core.Money{Cents: expenses}), nil
}

// ExpenseBreakdown groups expenses by category as positive magnitudes.
func (s *AggregationService) ExpenseBreakdown(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	rows, err := s.store.Queries().CategorySums(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("expense breakdown: %w", err)
	}
	return categoryTotals(rows, true), nil
}

func (s *AggregationService) IncomeBreakdown(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	rows, err := s.store.Queries().CategorySums(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("income breakdown: %w", err)
	}
	return categoryTotals(rows, false), nil
}

// DailyNetSavings returns one entry per day with postings, oldest first.
func (s *AggregationService) DailyNetSavings(ctx context.Context, userID int64) ([]core.DailyNet, error) {
	rows, err := s.store.Queries().DailySums(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("daily net savings: %w", err)
	}
	out := make([]core.DailyNet, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.DailyNet{
			Day:           r.Day,
			TotalIncome:   core.Money{Cents: r.IncomeCents}.Float(),
			TotalExpenses: core.Money{Cents: -r.ExpenseCents}.Float(),
			NetSavings:    core.Money{Cents: r.NetCents}.Float(),
		})
	}
	return out, nil
}

// Dashboard runs the four aggregates concurrently.
func (s *AggregationService) Dashboard(ctx context.Context, userID int64) (core.Dashboard, error) {
	var d core.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Metrics, err = s.Metrics(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.ExpenseBreakdown, err = s.ExpenseBreakdown(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.IncomeBreakdown, err = s.IncomeBreakdown(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.DailyNetSavings, err = s.DailyNetSavings(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return core.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}

func categoryTotals(rows []storage.CategorySumRow, negate bool) []core.CategoryTotal {
	out := make([]core.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		cents := r.SumCents
		if negate {
			cents = -cents
		}
		out = append(out, core.CategoryTotal{
			CategoryName: r.CategoryName,
			TotalAmount:  core.Money{Cents: cents}.Float(),
		})
	}
	return out
}
