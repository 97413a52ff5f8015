package storage

import (
	"context"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
)

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

const createUser = `INSERT INTO users (name, email, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	var id int64
	err := q.queryRow(ctx, createUser, arg.Name, arg.Email, arg.PasswordHash, arg.CreatedAt.UTC()).Scan(&id)
	return id, wrapErr("create user", err)
}

const selectUser = `SELECT id, name, email, password_hash, created_at FROM users`

func scanUser(row interface{ Scan(...interface{}) error }) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := scanUser(q.queryRow(ctx, selectUser+` WHERE id = ?`, id))
	return u, wrapErr("get user", err)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	u, err := scanUser(q.queryRow(ctx, selectUser+` WHERE email = ?`, email))
	return u, wrapErr("get user by email", err)
}

func (q *Queries) UserExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "user exists", `SELECT 1 FROM users WHERE id = ?`, id)
}

func (q *Queries) EmailExists(ctx context.Context, email string) (bool, error) {
	return q.exists(ctx, "email exists", `SELECT 1 FROM users WHERE email = ?`, email)
}

type UpdateUserParams struct {
	ID    int64
	Name  string
	Email string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (int64, error) {
	return q.rowsAffected(ctx, "update user", `UPDATE users SET name = ?, email = ? WHERE id = ?`,
		arg.Name, arg.Email, arg.ID)
}
