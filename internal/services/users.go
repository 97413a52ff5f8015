package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Ad2m1109/Spendora/internal/auth"
	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

const msgUserExists = "User already exists"

// UserService registers, authenticates and updates users.
type UserService struct {
	store  *storage.Store
	hasher *auth.Hasher
	tokens *auth.TokenManager
}

func NewUserService(store *storage.Store, hasher *auth.Hasher, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = core.NormalizeEmail(email)
	switch {
	case name == "":
		return 0, core.NewValidationError("name", "is required")
	case email == "" || !strings.Contains(email, "@"):
		return 0, core.NewValidationError("email", "must be a valid address")
	case password == "":
		return 0, core.NewValidationError("password", "is required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		taken, err := q.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return core.NewConflictError(msgUserExists)
		}
		id, err = q.CreateUser(ctx, storage.CreateUserParams{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		})
		if storage.IsUniqueViolation(err) {
			return core.NewConflictError(msgUserExists)
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", id)
	return id, nil
}

// Login returns a signed token for valid credentials. Unknown email and wrong
// password both yield core.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, core.User, error) {
	u, err := s.store.Queries().GetUserByEmail(ctx, core.NormalizeEmail(email))
	if errors.Is(err, core.ErrNotFound) {
		return "", core.User{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return "", core.User{}, fmt.Errorf("login: %w", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", core.User{}, core.ErrInvalidCredentials
		}
		return "", core.User{}, fmt.Errorf("login: %w", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", core.User{}, fmt.Errorf("login: %w", err)
	}
	return token, u, nil
}

func (s *UserService) Exists(ctx context.Context, email string) (bool, error) {
	ok, err := s.store.Queries().EmailExists(ctx, core.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return ok, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (core.User, error) {
	u, err := s.store.Queries().GetUser(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes name and email. Taking another user's email is a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, email string) (int64, error) {
	name = strings.TrimSpace(name)
	email = core.NormalizeEmail(email)
	if name == "" {
		return 0, core.NewValidationError("name", "is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return 0, core.NewValidationError("email", "must be a valid address")
	}

	n, err := s.store.Queries().UpdateUser(ctx, storage.UpdateUserParams{ID: id, Name: name, Email: email})
	if storage.IsUniqueViolation(err) {
		return 0, core.NewConflictError("email is already in use")
	}
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return n, nil
}
