package storage

import (
	"context"

	"github.com/Ad2m1109/Spendora/internal/core"
)

func (q *Queries) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := q.queryRow(ctx, `INSERT INTO categories (name) VALUES (?) RETURNING id`, name).Scan(&id)
	return id, wrapErr("create category", err)
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	items := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, wrapErr("scan category", err)
		}
		items = append(items, c)
	}
	return items, wrapErr("list categories", rows.Err())
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := q.queryRow(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	return c, wrapErr("get category", err)
}

func (q *Queries) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "category exists", `SELECT 1 FROM categories WHERE id = ?`, id)
}

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, wrapErr("count categories", err)
}

// DeleteCategory leaves transactions and goals that reference the id untouched.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	return q.rowsAffected(ctx, "delete category", `DELETE FROM categories WHERE id = ?`, id)
}
