package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// DefaultCategories are created on first start when the registry is empty.
var DefaultCategories = []string{
	"Salary",
	"Groceries",
	"Rent",
	"Utilities",
	"Entertainment",
	"Transportation",
	"Healthcare",
	"Savings",
	"Investments",
	"Miscellaneous",
}

type CategoryService struct {
	store *storage.Store
}

func NewCategoryService(store *storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, core.NewValidationError("categoryName", "must not be blank")
	}
	id, err := s.store.Queries().CreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "id", id, "name", name)
	return id, nil
}

func (s *CategoryService) ListAll(ctx context.Context) ([]core.Category, error) {
	items, err := s.store.Queries().ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// Get returns core.ErrNotFound when the id is unknown.
func (s *CategoryService) Get(ctx context.Context, id int64) (core.Category, error) {
	c, err := s.store.Queries().GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Delete does not cascade: transactions and goals keep the dangling id.
func (s *CategoryService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.Queries().DeleteCategory(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return n, nil
}

// SeedDefaults inserts DefaultCategories when no category exists yet and
// reports how many were created.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		n, err := q.CountCategories(ctx)
		if err != nil || n > 0 {
			return err
		}
		for _, name := range DefaultCategories {
			if _, err := q.CreateCategory(ctx, name); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	if created > 0 {
		slog.InfoContext(ctx, "Default categories created", "count", created)
	}
	return created, nil
}
