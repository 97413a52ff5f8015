package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ad2m1109/Spendora/internal/amqp"
	"github.com/Ad2m1109/Spendora/internal/auth"
	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

type testEnv struct {
	store      *storage.Store
	users      *UserService
	categories *CategoryService
	goals      *GoalService
	ledger     *LedgerService
	aggregates *AggregationService
	reports    *ReportService
}

// newTestEnv wires the services the same way the backend factory does in
// inline goal sync mode, unless postings overrides the handler.
func newTestEnv(t *testing.T, postings PostingHandler) *testEnv {
	t.Helper()
	store, err := storage.Open(context.Background(), storage.Config{
		Dialect:    storage.SQLite,
		SQLitePath: filepath.Join(t.TempDir(), "services.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	goals := NewGoalService(store)
	if postings == nil {
		postings = NewGoalSync(goals)
	}
	return &testEnv{
		store:      store,
		users:      NewUserService(store, auth.NewHasher(bcrypt.MinCost), auth.NewTokenManager("test", time.Hour)),
		categories: NewCategoryService(store),
		goals:      goals,
		ledger:     NewLedgerService(store, postings),
		aggregates: NewAggregationService(store),
		reports:    NewReportService(store),
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (e *testEnv) mustUser(t *testing.T, email string) int64 {
	t.Helper()
	id, err := e.users.Register(context.Background(), "Test User", email, "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

func (e *testEnv) mustCategory(t *testing.T, name string) int64 {
	t.Helper()
	id, err := e.categories.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return id
}

func (e *testEnv) mustPost(t *testing.T, userID, categoryID int64, amount, date string) int64 {
	t.Helper()
	id, err := e.ledger.Create(context.Background(), core.TransactionDraft{
		UserID: userID, Amount: dec(amount), Date: date, CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("post %s: %v", amount, err)
	}
	return id
}

type recordingHandler struct {
	mu     sync.Mutex
	events []PostingEvent
	err    error
}

func (h *recordingHandler) HandlePosting(ctx context.Context, ev PostingEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.err
}

func TestEndToEndGroceriesScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	u := env.mustUser(t, "u@example.com")
	groceries := env.mustCategory(t, "Groceries")
	if groceries != 1 {
		t.Fatalf("expected Groceries to get id 1, got %d", groceries)
	}
	goalID, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Food fund", Target: dec("500"), CategoryID: groceries})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	env.mustPost(t, u, groceries, "-40", "2025-01-10")
	breakdown, err := env.aggregates.ExpenseBreakdown(ctx, u)
	if err != nil {
		t.Fatalf("expense breakdown: %v", err)
	}
	if len(breakdown) != 1 || breakdown[0] != (core.CategoryTotal{CategoryName: "Groceries", TotalAmount: 40}) {
		t.Fatalf("breakdown = %+v", breakdown)
	}

	env.mustPost(t, u, groceries, "100", "2025-01-11")
	g, err := env.goals.Get(ctx, goalID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if g.Current.Float() != 100 {
		t.Fatalf("goal current = %v, want 100", g.Current.Float())
	}

	m, err := env.aggregates.Metrics(ctx, u)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m != (core.Metrics{TotalIncome: 100, TotalExpenses: 40, NetSavings: 60}) {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestLedgerCreateValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	cat := env.mustCategory(t, "Rent")

	tests := []struct {
		name     string
		draft    core.TransactionDraft
		conflict bool
	}{
		{"missing user", core.TransactionDraft{Amount: dec("1"), Date: "2025-01-01", CategoryID: cat}, false},
		{"missing amount", core.TransactionDraft{UserID: 1, Date: "2025-01-01", CategoryID: cat}, false},
		{"bad date", core.TransactionDraft{UserID: 1, Amount: dec("1"), Date: "01/01/2025", CategoryID: cat}, false},
		{"missing category", core.TransactionDraft{UserID: 1, Amount: dec("1"), Date: "2025-01-01"}, false},
		{"unknown category", core.TransactionDraft{UserID: 1, Amount: dec("1"), Date: "2025-01-01", CategoryID: cat + 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.Create(ctx, tt.draft)
			if tt.conflict && !core.IsConflict(err) {
				t.Fatalf("expected ConflictError, got %v", err)
			}
			if !tt.conflict && !core.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	items, err := env.ledger.ListByUser(ctx, 1)
	if err != nil || len(items) != 0 {
		t.Fatalf("nothing should have been stored: %+v err=%v", items, err)
	}
}

func TestAmountMagnitudeBound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "big@example.com")
	cat := env.mustCategory(t, "Property")

	for _, amount := range []string{"-92233720368547758.08", "90000000000000000", "100000000000.01"} {
		_, err := env.ledger.Create(ctx, core.TransactionDraft{UserID: u, Amount: dec(amount), Date: "2025-01-01", CategoryID: cat})
		if !core.IsValidation(err) {
			t.Fatalf("amount %s: expected ValidationError, got %v", amount, err)
		}
	}
	if _, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Castle", Target: dec("100000000000.01"), CategoryID: cat}); !core.IsValidation(err) {
		t.Fatalf("goal target: expected ValidationError, got %v", err)
	}

	// Postings at the bound still aggregate with absolute expense values.
	env.mustPost(t, u, cat, "-100000000000", "2025-01-01")
	env.mustPost(t, u, cat, "-100000000000", "2025-01-01")
	env.mustPost(t, u, cat, "100000000000", "2025-01-02")

	m, err := env.aggregates.Metrics(ctx, u)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.TotalIncome != 1e11 || m.TotalExpenses != 2e11 || m.NetSavings != -1e11 {
		t.Fatalf("metrics = %+v", m)
	}
	exp, err := env.aggregates.ExpenseBreakdown(ctx, u)
	if err != nil || len(exp) != 1 || exp[0].TotalAmount != 2e11 {
		t.Fatalf("expense breakdown = %+v err=%v", exp, err)
	}
	daily, err := env.aggregates.DailyNetSavings(ctx, u)
	if err != nil || len(daily) != 2 || daily[0].TotalExpenses != 2e11 || daily[0].NetSavings != -2e11 {
		t.Fatalf("daily = %+v err=%v", daily, err)
	}
}

func TestLedgerEmitsOnlyPositivePostings(t *testing.T) {
	h := &recordingHandler{}
	env := newTestEnv(t, h)
	cat := env.mustCategory(t, "Salary")

	incomeID := env.mustPost(t, 1, cat, "1500.50", "2025-02-01")
	env.mustPost(t, 1, cat, "-20", "2025-02-02")
	env.mustPost(t, 1, cat, "0", "2025-02-03")

	if len(h.events) != 1 {
		t.Fatalf("expected one posting event, got %d", len(h.events))
	}
	ev := h.events[0]
	if ev.TransactionID != incomeID || ev.CategoryID != cat || ev.UserID != 1 || ev.Amount.Cents != 150050 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestLedgerCreateSurvivesGoalSyncFailure(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{err: errors.New("broker down")}
	env := newTestEnv(t, h)
	cat := env.mustCategory(t, "Salary")

	id, err := env.ledger.Create(ctx, core.TransactionDraft{UserID: 1, Amount: dec("10"), Date: "2025-01-01", CategoryID: cat})
	if err != nil {
		t.Fatalf("create must not fail when goal sync fails: %v", err)
	}
	items, _ := env.ledger.ListByUser(ctx, 1)
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("transaction was not committed: %+v", items)
	}
}

func TestGoalSyncLogsPostingFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "log@example.com")
	cat := env.mustCategory(t, "Bonus")
	if _, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Trip", Target: dec("100"), CategoryID: cat}); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	txID := env.mustPost(t, u, cat, "12.50", "2025-01-01")

	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "Goal progress incremented") {
			line = l
		}
	}
	if line == "" {
		t.Fatalf("no goal sync record in %q", buf.String())
	}
	for _, want := range []string{
		"component=goal_sync",
		"transaction_id=" + strconv.FormatInt(txID, 10),
		"user_id=" + strconv.FormatInt(u, 10),
		"category_id=" + strconv.FormatInt(cat, 10),
		"amount_cents=1250",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("record %q is missing %q", line, want)
		}
	}

	// A failing handler logs the same posting fields plus the error.
	buf.Reset()
	failing := newTestEnv(t, &recordingHandler{err: errors.New("broker down")})
	fc := failing.mustCategory(t, "Salary")
	failing.mustPost(t, 1, fc, "5", "2025-01-01")
	if out := buf.String(); !strings.Contains(out, "Goal sync failed") || !strings.Contains(out, "amount_cents=500") || !strings.Contains(out, "broker down") {
		t.Fatalf("failure record = %q", out)
	}
}

func TestLedgerWithoutHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ledger = NewLedgerService(env.store, nil)
	cat := env.mustCategory(t, "Salary")
	env.mustPost(t, 1, cat, "10", "2025-01-01")
}

func TestLedgerUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "a@example.com")
	cat := env.mustCategory(t, "Savings")
	goalID, _ := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Rainy day", Target: dec("1000"), CategoryID: cat})

	id := env.mustPost(t, u, cat, "100", "2025-01-01")

	n, err := env.ledger.Update(ctx, id, core.TransactionDraft{Amount: dec("-5"), Date: "2025-01-02", Description: "fix", CategoryID: cat})
	if err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
	n, err = env.ledger.Update(ctx, id+99, core.TransactionDraft{Amount: dec("1"), Date: "2025-01-02", CategoryID: cat})
	if err != nil || n != 0 {
		t.Fatalf("update missing: n=%d err=%v", n, err)
	}
	if _, err := env.ledger.Update(ctx, id, core.TransactionDraft{Date: "2025-01-02", CategoryID: cat}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	n, err = env.ledger.Delete(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("delete: n=%d err=%v", n, err)
	}
	n, err = env.ledger.Delete(ctx, id)
	if err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v", n, err)
	}

	// Edits and deletes never reverse earlier goal progress.
	g, _ := env.goals.Get(ctx, goalID)
	if g.Current.Cents != 10000 {
		t.Fatalf("goal progress changed to %d", g.Current.Cents)
	}

	// Reconcile repairs the drift on request.
	g, err = env.goals.Reconcile(ctx, goalID)
	if err != nil || g.Current.Cents != 0 {
		t.Fatalf("reconcile: current=%d err=%v", g.Current.Cents, err)
	}
}

func TestGoalCreateConflicts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "g@example.com")
	cat := env.mustCategory(t, "Investments")

	if _, err := env.goals.Create(ctx, core.GoalDraft{UserID: u + 100, Name: "x", Target: dec("1"), CategoryID: cat}); !core.IsConflict(err) {
		t.Fatalf("expected conflict for missing user, got %v", err)
	}
	if _, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "first", Target: dec("1"), CategoryID: cat}); err != nil {
		t.Fatalf("first goal: %v", err)
	}
	_, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "second", Target: dec("1"), CategoryID: cat})
	if !core.IsConflict(err) {
		t.Fatalf("expected conflict for bound category, got %v", err)
	}
	if _, err := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: " ", Target: dec("1"), CategoryID: cat}); !core.IsValidation(err) {
		t.Fatalf("expected validation before conflict checks, got %v", err)
	}

	goals, err := env.goals.ListByUser(ctx, u)
	if err != nil || len(goals) != 1 || goals[0].Name != "first" {
		t.Fatalf("list: %+v err=%v", goals, err)
	}
	empty, err := env.goals.ListByUser(ctx, u+1)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %#v err=%v", empty, err)
	}
}

func TestGoalProgressOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "p@example.com")
	cat := env.mustCategory(t, "Savings")
	id, _ := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Car", Target: dec("5000"), Current: dec("10"), CategoryID: cat})

	n, err := env.goals.UpdateProgress(ctx, id, dec("250.75"))
	if err != nil || n != 1 {
		t.Fatalf("update progress: n=%d err=%v", n, err)
	}
	g, _ := env.goals.Get(ctx, id)
	if g.Current.Cents != 25075 {
		t.Fatalf("current = %d", g.Current.Cents)
	}

	if n, err := env.goals.UpdateProgress(ctx, id+50, dec("1")); err != nil || n != 0 {
		t.Fatalf("update missing goal: n=%d err=%v", n, err)
	}
	if _, err := env.goals.UpdateProgress(ctx, id, dec("-1")); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := env.goals.UpdateProgress(ctx, id, nil); !core.IsValidation(err) {
		t.Fatalf("expected validation error for missing amount, got %v", err)
	}

	if n, err := env.goals.ApplyIncome(ctx, cat, core.Money{Cents: 25}); err != nil || n != 1 {
		t.Fatalf("apply income: n=%d err=%v", n, err)
	}
	if n, err := env.goals.ApplyIncome(ctx, cat+1, core.Money{Cents: 25}); err != nil || n != 0 {
		t.Fatalf("apply income without goal: n=%d err=%v", n, err)
	}
	if _, err := env.goals.ApplyIncome(ctx, cat, core.Money{Cents: -1}); !core.IsValidation(err) {
		t.Fatalf("expected validation error for negative income, got %v", err)
	}
	g, _ = env.goals.Get(ctx, id)
	if g.Current.Cents != 25100 {
		t.Fatalf("current after income = %d", g.Current.Cents)
	}

	if _, err := env.goals.Reconcile(ctx, id+50); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, err := env.goals.ReconcileAll(ctx); err != nil || n != 1 {
		t.Fatalf("reconcile all: n=%d err=%v", n, err)
	}

	if n, err := env.goals.Delete(ctx, id); err != nil || n != 1 {
		t.Fatalf("delete: n=%d err=%v", n, err)
	}
	if n, err := env.goals.Delete(ctx, id); err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v", n, err)
	}
	if _, err := env.goals.Get(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentIncomeIsNotLost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	u := env.mustUser(t, "c@example.com")
	cat := env.mustCategory(t, "Salary")
	id, _ := env.goals.Create(ctx, core.GoalDraft{UserID: u, Name: "Pile", Target: dec("1000"), CategoryID: cat})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.ledger.Create(ctx, core.TransactionDraft{UserID: u, Amount: dec("1.5"), Date: "2025-01-01", CategoryID: cat}); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	g, _ := env.goals.Get(ctx, id)
	if g.Current.Cents != 1500 {
		t.Fatalf("expected 1500 cents, got %d", g.Current.Cents)
	}
}

func TestAggregationOverNoTransactions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	m, err := env.aggregates.Metrics(ctx, 77)
	if err != nil || m != (core.Metrics{}) {
		t.Fatalf("metrics = %+v err=%v", m, err)
	}
	d, err := env.aggregates.Dashboard(ctx, 77)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.ExpenseBreakdown == nil || len(d.ExpenseBreakdown) != 0 ||
		d.IncomeBreakdown == nil || len(d.IncomeBreakdown) != 0 ||
		d.DailyNetSavings == nil || len(d.DailyNetSavings) != 0 {
		t.Fatalf("expected empty non-nil sequences, got %#v", d)
	}
}

func TestAggregationSeries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	salary := env.mustCategory(t, "Salary")
	food := env.mustCategory(t, "Groceries")
	fun := env.mustCategory(t, "Entertainment")

	env.mustPost(t, 1, salary, "2000", "2025-03-01")
	env.mustPost(t, 1, food, "-12.30", "2025-03-01")
	env.mustPost(t, 1, fun, "-7.70", "2025-03-02T21:00:00Z")
	env.mustPost(t, 1, food, "-0.10", "2025-03-02")
	env.mustPost(t, 1, fun, "0", "2025-03-05")
	env.mustPost(t, 2, food, "-999", "2025-03-01")

	m, _ := env.aggregates.Metrics(ctx, 1)
	if m.TotalIncome-m.TotalExpenses != m.NetSavings {
		t.Fatalf("net savings mismatch: %+v", m)
	}
	if m.TotalIncome != 2000 || m.TotalExpenses != 20.1 {
		t.Fatalf("metrics = %+v", m)
	}

	exp, _ := env.aggregates.ExpenseBreakdown(ctx, 1)
	wantExp := []core.CategoryTotal{{CategoryName: "Entertainment", TotalAmount: 7.7}, {CategoryName: "Groceries", TotalAmount: 12.4}}
	if len(exp) != 2 || exp[0] != wantExp[0] || exp[1] != wantExp[1] {
		t.Fatalf("expense breakdown = %+v", exp)
	}
	inc, _ := env.aggregates.IncomeBreakdown(ctx, 1)
	if len(inc) != 1 || inc[0] != (core.CategoryTotal{CategoryName: "Salary", TotalAmount: 2000}) {
		t.Fatalf("income breakdown = %+v", inc)
	}

	daily, _ := env.aggregates.DailyNetSavings(ctx, 1)
	wantDaily := []core.DailyNet{
		{Day: "2025-03-01", TotalIncome: 2000, TotalExpenses: 12.3, NetSavings: 1987.7},
		{Day: "2025-03-02", TotalIncome: 0, TotalExpenses: 7.8, NetSavings: -7.8},
		{Day: "2025-03-05", TotalIncome: 0, TotalExpenses: 0, NetSavings: 0},
	}
	if len(daily) != len(wantDaily) {
		t.Fatalf("daily = %+v", daily)
	}
	for i := range wantDaily {
		if daily[i] != wantDaily[i] {
			t.Fatalf("daily[%d] = %+v, want %+v", i, daily[i], wantDaily[i])
		}
	}

	// Deleting a category drops its rows from breakdowns but not from totals.
	if _, err := env.categories.Delete(ctx, fun); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	exp, _ = env.aggregates.ExpenseBreakdown(ctx, 1)
	if len(exp) != 1 || exp[0].CategoryName != "Groceries" {
		t.Fatalf("breakdown after category delete = %+v", exp)
	}
	m2, _ := env.aggregates.Metrics(ctx, 1)
	if m2 != m {
		t.Fatalf("metrics changed after category delete: %+v vs %+v", m2, m)
	}

	d, err := env.aggregates.Dashboard(ctx, 1)
	if err != nil || d.Metrics != m || len(d.DailyNetSavings) != 3 || len(d.IncomeBreakdown) != 1 {
		t.Fatalf("dashboard = %+v err=%v", d, err)
	}
}

func TestCategoryRegistry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	if _, err := env.categories.Create(ctx, "  "); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	n, err := env.categories.SeedDefaults(ctx)
	if err != nil || n != len(DefaultCategories) {
		t.Fatalf("seed: n=%d err=%v", n, err)
	}
	if n, _ := env.categories.SeedDefaults(ctx); n != 0 {
		t.Fatalf("second seed created %d categories", n)
	}

	all, err := env.categories.ListAll(ctx)
	if err != nil || len(all) != len(DefaultCategories) || all[0].Name != "Salary" {
		t.Fatalf("list = %+v err=%v", all, err)
	}

	c, err := env.categories.Get(ctx, all[1].ID)
	if err != nil || c.Name != "Groceries" {
		t.Fatalf("get = %+v err=%v", c, err)
	}
	if _, err := env.categories.Get(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, err := env.categories.Delete(ctx, 999); err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v", n, err)
	}
}

func TestUserAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	id, err := env.users.Register(ctx, "Ada", " Ada@Example.com ", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err = env.users.Register(ctx, "Ada 2", "ada@example.com", "pw2")
	var c *core.ConflictError
	if !errors.As(err, &c) || c.Message != "User already exists" {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
	if _, err := env.users.Register(ctx, "", "x@example.com", "pw"); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	ok, err := env.users.Exists(ctx, "ADA@example.com")
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}

	token, u, err := env.users.Login(ctx, "ada@example.com", "pw")
	if err != nil || token == "" || u.ID != id || u.Email != "ada@example.com" {
		t.Fatalf("login: token=%q user=%+v err=%v", token, u, err)
	}
	if _, _, err := env.users.Login(ctx, "ada@example.com", "nope"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := env.users.Login(ctx, "ghost@example.com", "pw"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other := env.mustUser(t, "bob@example.com")
	if _, err := env.users.UpdateProfile(ctx, other, "Bob", "ada@example.com"); !core.IsConflict(err) {
		t.Fatalf("expected conflict on taken email, got %v", err)
	}
	if n, err := env.users.UpdateProfile(ctx, other, "Robert", "robert@example.com"); err != nil || n != 1 {
		t.Fatalf("update profile: n=%d err=%v", n, err)
	}
	if n, err := env.users.UpdateProfile(ctx, other+10, "Ghost", "ghost@example.com"); err != nil || n != 0 {
		t.Fatalf("update missing: n=%d err=%v", n, err)
	}
	got, err := env.users.Get(ctx, other)
	if err != nil || got.Name != "Robert" {
		t.Fatalf("get: %+v err=%v", got, err)
	}
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.reports.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := env.reports.Create(ctx, 0, "monthly", ""); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := env.reports.Create(ctx, 1, "monthly", "june"); !core.IsValidation(err) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
	if _, err := env.reports.Create(ctx, 1, "monthly", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.reports.Create(ctx, 1, "yearly", "2024-12-31"); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := env.reports.ListByUser(ctx, 1)
	if err != nil || len(items) != 2 {
		t.Fatalf("list: %+v err=%v", items, err)
	}
	if items[0].Type != "monthly" || !items[0].GeneratedDate.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("newest report first, got %+v", items[0])
	}
}

type fakePublisher struct {
	msgs []*amqp.PostingMessage
	err  error
}

func (f *fakePublisher) PublishPosting(ctx context.Context, msg *amqp.PostingMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestAMQPPostingPublisher(t *testing.T) {
	ctx := context.Background()
	fp := &fakePublisher{}
	p := NewAMQPPostingPublisher(fp)
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	ev := PostingEvent{TransactionID: 3, UserID: 1, CategoryID: 2, Amount: core.Money{Cents: 500}, Date: date}
	if err := p.HandlePosting(ctx, ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(fp.msgs) != 1 || fp.msgs[0].AmountCents != 500 || fp.msgs[0].CategoryID != 2 {
		t.Fatalf("published %+v", fp.msgs)
	}
	back := PostingEventFromMessage(fp.msgs[0])
	if back != ev {
		t.Fatalf("round trip = %+v, want %+v", back, ev)
	}

	fp.err = errors.New("closed")
	if err := p.HandlePosting(ctx, ev); err == nil {
		t.Fatalf("expected publish error")
	}
}
