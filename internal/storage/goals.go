package storage

import (
	"context"

	"github.com/Ad2m1109/Spendora/internal/core"
)

type CreateGoalParams struct {
	UserID       int64
	Name         string
	TargetCents  int64
	CurrentCents int64
	CategoryID   int64
}

const createGoal = `INSERT INTO goals (user_id, name, target_cents, current_cents, category_id)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (int64, error) {
	var id int64
	err := q.queryRow(ctx, createGoal,
		arg.UserID, arg.Name, arg.TargetCents, arg.CurrentCents, arg.CategoryID).Scan(&id)
	return id, wrapErr("create goal", err)
}

const selectGoal = `SELECT id, user_id, name, target_cents, current_cents, category_id FROM goals`

func scanGoal(row interface{ Scan(...interface{}) error }) (core.Goal, error) {
	var g core.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &g.CategoryID)
	return g, err
}

func (q *Queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	g, err := scanGoal(q.queryRow(ctx, selectGoal+` WHERE id = ?`, id))
	return g, wrapErr("get goal", err)
}

func (q *Queries) ListGoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := q.query(ctx, selectGoal+` WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, wrapErr("list goals", err)
	}
	defer rows.Close()

	items := make([]core.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, wrapErr("scan goal", err)
		}
		items = append(items, g)
	}
	return items, wrapErr("list goals", rows.Err())
}

func (q *Queries) GoalExistsForCategory(ctx context.Context, categoryID int64) (bool, error) {
	return q.exists(ctx, "goal exists for category", `SELECT 1 FROM goals WHERE category_id = ?`, categoryID)
}

// UpdateGoalProgress overwrites the progress value.
func (q *Queries) UpdateGoalProgress(ctx context.Context, id, currentCents int64) (int64, error) {
	return q.rowsAffected(ctx, "update goal progress", `UPDATE goals SET current_cents = ? WHERE id = ?`,
		currentCents, id)
}

// IncrementGoalProgress adds to the goal bound to a category in one statement
// so concurrent postings cannot lose updates.
func (q *Queries) IncrementGoalProgress(ctx context.Context, categoryID, deltaCents int64) (int64, error) {
	return q.rowsAffected(ctx, "increment goal progress",
		`UPDATE goals SET current_cents = current_cents + ? WHERE category_id = ?`,
		deltaCents, categoryID)
}

const recomputeGoalProgress = `UPDATE goals SET current_cents = (
    SELECT CAST(COALESCE(SUM(t.amount_cents), 0) AS BIGINT)
    FROM transactions t
    WHERE t.category_id = goals.category_id AND t.amount_cents > 0
)`

// RecomputeGoalProgress rebuilds one goal's progress from the ledger.
func (q *Queries) RecomputeGoalProgress(ctx context.Context, id int64) (int64, error) {
	return q.rowsAffected(ctx, "recompute goal progress", recomputeGoalProgress+` WHERE id = ?`, id)
}

// RecomputeAllGoalProgress rebuilds every goal's progress from the ledger.
func (q *Queries) RecomputeAllGoalProgress(ctx context.Context) (int64, error) {
	return q.rowsAffected(ctx, "recompute all goal progress", recomputeGoalProgress)
}

func (q *Queries) DeleteGoal(ctx context.Context, id int64) (int64, error) {
	return q.rowsAffected(ctx, "delete goal", `DELETE FROM goals WHERE id = ?`, id)
}
