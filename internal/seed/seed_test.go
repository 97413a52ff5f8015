package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

func newServices(t *testing.T) *backend.Services {
	t.Helper()
	res, err := backend.NewFactory(nil).CreateBackend(context.Background(), backend.Config{
		Dialect:      storage.SQLite,
		SQLiteDBPath: filepath.Join(t.TempDir(), "seed.db"),
		GoalSyncMode: backend.GoalSyncInline,
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		BcryptCost:   4,
	})
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	t.Cleanup(func() { res.Cleanup() })
	return res.Services
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	res, err := Run(ctx, svc, Options{Transactions: 25, Seed: 42})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Transactions != 25 {
		t.Fatalf("transactions = %d, want 25", res.Transactions)
	}

	txs, err := svc.Ledger.ListByUser(ctx, res.UserID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(txs) != 25 {
		t.Fatalf("stored transactions = %d, want 25", len(txs))
	}

	// The goal must hold exactly the income posted to its category.
	goal, err := svc.Goals.Get(ctx, res.GoalID)
	if err != nil {
		t.Fatalf("Get goal: %v", err)
	}
	var want int64
	for _, tx := range txs {
		if tx.CategoryID == goal.CategoryID && tx.Amount.Cents > 0 {
			want += tx.Amount.Cents
		}
	}
	if goal.Current.Cents != want {
		t.Fatalf("goal current = %d, want %d", goal.Current.Cents, want)
	}

	if _, _, err := svc.Users.Login(ctx, res.Email, res.Password); err != nil {
		t.Fatalf("demo user cannot log in: %v", err)
	}
}

func TestRunTwiceSkipsTakenGoal(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	if _, err := Run(ctx, svc, Options{Transactions: 3, Seed: 1}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := Run(ctx, svc, Options{Transactions: 3, Seed: 2})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.GoalID != 0 {
		t.Fatalf("second run created goal %d, want none", res.GoalID)
	}
}
