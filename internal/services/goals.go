package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

const (
	msgUserMissing   = "user %d does not exist"
	msgCategoryBound = "category %d is already bound to a goal"
)

// GoalService manages savings goals. Progress moves through ApplyIncome,
// UpdateProgress or an explicit Reconcile.
type GoalService struct {
	store *storage.Store
}

func NewGoalService(store *storage.Store) *GoalService {
	return &GoalService{store: store}
}

func (s *GoalService) Create(ctx context.Context, d core.GoalDraft) (int64, error) {
	g, err := d.Build()
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		exists, err := q.UserExists(ctx, g.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return core.NewConflictError(fmt.Sprintf(msgUserMissing, g.UserID))
		}

		taken, err := q.GoalExistsForCategory(ctx, g.CategoryID)
		if err != nil {
			return err
		}
		if taken {
			return core.NewConflictError(fmt.Sprintf(msgCategoryBound, g.CategoryID))
		}

		id, err = q.CreateGoal(ctx, storage.CreateGoalParams{
			UserID:       g.UserID,
			Name:         g.Name,
			TargetCents:  g.Target.Cents,
			CurrentCents: g.Current.Cents,
			CategoryID:   g.CategoryID,
		})
		// A concurrent create can still win the unique index.
		if storage.IsUniqueViolation(err) {
			return core.NewConflictError(fmt.Sprintf(msgCategoryBound, g.CategoryID))
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"id", id,
		"user_id", g.UserID,
		"category_id", g.CategoryID,
		"target_cents", g.Target.Cents)

	return id, nil
}

func (s *GoalService) Get(ctx context.Context, id int64) (core.Goal, error) {
	g, err := s.store.Queries().GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *GoalService) ListByUser(ctx context.Context, userID int64) ([]core.Goal, error) {
	items, err := s.store.Queries().ListGoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return items, nil
}

// UpdateProgress overwrites the current amount.
func (s *GoalService) UpdateProgress(ctx context.Context, id int64, amount *decimal.Decimal) (int64, error) {
	if amount == nil {
		return 0, core.NewValidationError("currentAmount", "is required")
	}
	current, err := core.MoneyFromDecimal(*amount)
	if err != nil {
		return 0, core.NewValidationError("currentAmount", err.Error())
	}
	if current.Cents < 0 {
		return 0, core.NewValidationError("currentAmount", "must not be negative")
	}

	n, err := s.store.Queries().UpdateGoalProgress(ctx, id, current.Cents)
	if err != nil {
		return 0, fmt.Errorf("update goal progress: %w", err)
	}
	return n, nil
}

func (s *GoalService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.Queries().DeleteGoal(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete goal: %w", err)
	}
	return n, nil
}

// ApplyIncome adds a positive amount to the goal bound to categoryID, if any,
// with a single atomic increment.
func (s *GoalService) ApplyIncome(ctx context.Context, categoryID int64, amount core.Money) (int64, error) {
	if !amount.IsPositive() {
		return 0, core.NewValidationError("amount", "income must be positive")
	}
	n, err := s.store.Queries().IncrementGoalProgress(ctx, categoryID, amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("apply income: %w", err)
	}
	return n, nil
}

// Reconcile recomputes a goal's progress as the sum of every positive posting
// in its category. This discards manual overwrites and repairs drift caused
// by edited or deleted transactions.
func (s *GoalService) Reconcile(ctx context.Context, id int64) (core.Goal, error) {
	var g core.Goal
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		n, err := q.RecomputeGoalProgress(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return core.ErrNotFound
		}
		g, err = q.GetGoal(ctx, id)
		return err
	})
	if err != nil {
		return core.Goal{}, fmt.Errorf("reconcile goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal reconciled", "id", id, "current_cents", g.Current.Cents)
	return g, nil
}

// ReconcileAll recomputes every goal and returns how many were updated.
func (s *GoalService) ReconcileAll(ctx context.Context) (int64, error) {
	n, err := s.store.Queries().RecomputeAllGoalProgress(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile goals: %w", err)
	}
	slog.InfoContext(ctx, "Goals reconciled", "count", n)
	return n, nil
}
