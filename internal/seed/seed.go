// Package seed fills a store with a demo user, a month of random postings and
// a savings goal. Everything goes through the services so goal sync runs.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/core"
)

// GoalCategory is the category the demo goal is bound to.
const GoalCategory = "Savings"

type Options struct {
	Transactions int
	Days         int
	// Seed makes the generated data reproducible; zero picks a random seed.
	Seed int64
	Now  time.Time
}

type Result struct {
	UserID       int64
	Email        string
	Password     string
	Transactions int
	GoalID       int64
}

func (o Options) withDefaults() Options {
	if o.Transactions <= 0 {
		o.Transactions = 40
	}
	if o.Days <= 0 {
		o.Days = 30
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Run seeds the default categories when missing, then registers a fake user
// with a goal on GoalCategory and random income and expenses.
func Run(ctx context.Context, svc *backend.Services, opts Options) (Result, error) {
	opts = opts.withDefaults()
	faker := gofakeit.New(opts.Seed)

	if _, err := svc.Categories.SeedDefaults(ctx); err != nil {
		return Result{}, err
	}
	categories, err := svc.Categories.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(categories) == 0 {
		return Result{}, fmt.Errorf("no categories available")
	}

	res := Result{
		Email:    faker.Email(),
		Password: faker.Password(true, true, true, false, false, 12),
	}
	res.UserID, err = svc.Users.Register(ctx, faker.Name(), res.Email, res.Password)
	if err != nil {
		return Result{}, fmt.Errorf("register demo user: %w", err)
	}

	goalCategory := categories[0].ID
	for _, c := range categories {
		if c.Name == GoalCategory {
			goalCategory = c.ID
		}
	}
	target := decimal.NewFromInt(int64(faker.Number(1000, 5000)))
	res.GoalID, err = svc.Goals.Create(ctx, core.GoalDraft{
		UserID:     res.UserID,
		Name:       "Emergency fund",
		Target:     &target,
		CategoryID: goalCategory,
	})
	switch {
	case core.IsConflict(err):
		// Another seed run already owns the goal for this category.
		slog.WarnContext(ctx, "Skipping demo goal", "error", err)
	case err != nil:
		return Result{}, fmt.Errorf("create demo goal: %w", err)
	}

	start := opts.Now.UTC().AddDate(0, 0, -opts.Days)
	for i := 0; i < opts.Transactions; i++ {
		cat := categories[faker.Number(0, len(categories)-1)]
		amount := decimal.NewFromFloat(faker.Price(1, 500)).Round(2)
		// Roughly a third of the postings are income.
		if faker.Number(0, 2) != 0 {
			amount = amount.Neg()
		}
		day := faker.DateRange(start, opts.Now.UTC()).Format(core.DateLayout)
		if _, err := svc.Ledger.Create(ctx, core.TransactionDraft{
			UserID:      res.UserID,
			Amount:      &amount,
			Date:        day,
			Description: faker.Sentence(4),
			CategoryID:  cat.ID,
		}); err != nil {
			return res, fmt.Errorf("create transaction %d: %w", i, err)
		}
		res.Transactions++
	}

	return res, nil
}
