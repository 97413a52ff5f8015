package backend

import (
	"context"
	"time"

	"github.com/Ad2m1109/Spendora/internal/auth"
	"github.com/Ad2m1109/Spendora/internal/services"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// Services bundles the application services sharing one store.
type Services struct {
	Store      *storage.Store
	Tokens     *auth.TokenManager
	Users      *services.UserService
	Categories *services.CategoryService
	Ledger     *services.LedgerService
	Goals      *services.GoalService
	Aggregates *services.AggregationService
	Reports    *services.ReportService
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the services and the cleanup releasing the store
// and broker connections.
type BackendResult struct {
	Services *Services
	GoalSync GoalSyncMode
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Dialect      storage.Dialect
	SQLiteDBPath string
	DatabaseURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	GoalSyncMode GoalSyncMode

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	SeedDefaultCategories bool
}

// GoalSyncMode selects where positive postings are applied to goals.
type GoalSyncMode string

const (
	// GoalSyncInline applies postings in the API process after commit.
	GoalSyncInline GoalSyncMode = "inline"
	// GoalSyncAMQP publishes postings for cmd/spendora-worker to apply.
	GoalSyncAMQP GoalSyncMode = "amqp"
)

// String implements fmt.Stringer
func (m GoalSyncMode) String() string {
	return string(m)
}

// IsValid returns true if the goal sync mode is known
func (m GoalSyncMode) IsValid() bool {
	switch m {
	case GoalSyncInline, GoalSyncAMQP:
		return true
	default:
		return false
	}
}
