package storage

import (
	"context"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
)

type CreateTransactionParams struct {
	UserID      int64
	AmountCents int64
	OccurredAt  time.Time
	Description string
	CategoryID  int64
}

const createTransaction = `INSERT INTO transactions (user_id, amount_cents, occurred_at, description, category_id)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.queryRow(ctx, createTransaction,
		arg.UserID, arg.AmountCents, arg.OccurredAt.UTC(), arg.Description, arg.CategoryID).Scan(&id)
	return id, wrapErr("create transaction", err)
}

type UpdateTransactionParams struct {
	ID          int64
	AmountCents int64
	OccurredAt  time.Time
	Description string
	CategoryID  int64
}

const updateTransaction = `UPDATE transactions
SET amount_cents = ?, occurred_at = ?, description = ?, category_id = ?
WHERE id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	return q.rowsAffected(ctx, "update transaction", updateTransaction,
		arg.AmountCents, arg.OccurredAt.UTC(), arg.Description, arg.CategoryID, arg.ID)
}

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	return q.rowsAffected(ctx, "delete transaction", `DELETE FROM transactions WHERE id = ?`, id)
}

const listTransactionsByUser = `SELECT id, user_id, amount_cents, occurred_at, description, category_id
FROM transactions
WHERE user_id = ?
ORDER BY occurred_at, id`

func (q *Queries) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := q.query(ctx, listTransactionsByUser, userID)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	defer rows.Close()

	items := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Date, &t.Description, &t.CategoryID); err != nil {
			return nil, wrapErr("scan transaction", err)
		}
		t.Date = t.Date.UTC()
		items = append(items, t)
	}
	return items, wrapErr("list transactions", rows.Err())
}
