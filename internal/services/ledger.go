package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/log"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// PostingEvent is emitted after a positive transaction has been committed.
type PostingEvent struct {
	TransactionID int64
	UserID        int64
	CategoryID    int64
	Amount        core.Money
	Date          time.Time
}

// PostingHandler receives positive postings from the ledger.
type PostingHandler interface {
	HandlePosting(ctx context.Context, ev PostingEvent) error
}

// LedgerService records transactions and notifies goal sync of income.
type LedgerService struct {
	store    *storage.Store
	postings PostingHandler
}

func NewLedgerService(store *storage.Store, postings PostingHandler) *LedgerService {
	return &LedgerService{
		store:    store,
		postings: postings,
	}
}

// Create stores the transaction, then hands positive amounts to the posting
// handler. A handler failure is logged and never undoes the insert.
func (s *LedgerService) Create(ctx context.Context, d core.TransactionDraft) (int64, error) {
	tx, err := d.Build()
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		if err := requireCategory(ctx, q, tx.CategoryID); err != nil {
			return err
		}
		id, err = q.CreateTransaction(ctx, storage.CreateTransactionParams{
			UserID:      tx.UserID,
			AmountCents: tx.Amount.Cents,
			OccurredAt:  tx.Date,
			Description: tx.Description,
			CategoryID:  tx.CategoryID,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"user_id", tx.UserID,
		"category_id", tx.CategoryID,
		"amount_cents", tx.Amount.Cents)

	if tx.Amount.IsPositive() {
		s.emitPosting(ctx, PostingEvent{
			TransactionID: id,
			UserID:        tx.UserID,
			CategoryID:    tx.CategoryID,
			Amount:        tx.Amount,
			Date:          tx.Date,
		})
	}

	return id, nil
}

func (s *LedgerService) emitPosting(ctx context.Context, ev PostingEvent) {
	fields := log.NewFields().WithPosting(ev.TransactionID, ev.UserID, ev.CategoryID, ev.Amount.Cents)
	if s.postings == nil {
		slog.WarnContext(ctx, "No posting handler configured, skipping goal sync", fields.ToSlice()...)
		return
	}
	if err := s.postings.HandlePosting(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Goal sync failed", fields.WithError(err).ToSlice()...)
	}
}

// Update replaces amount, date, description and category. Goal progress is
// not adjusted. Zero rows affected means the transaction does not exist.
func (s *LedgerService) Update(ctx context.Context, id int64, d core.TransactionDraft) (int64, error) {
	tx, err := d.BuildChanges()
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		if err := requireCategory(ctx, q, tx.CategoryID); err != nil {
			return err
		}
		n, err = q.UpdateTransaction(ctx, storage.UpdateTransactionParams{
			ID:          id,
			AmountCents: tx.Amount.Cents,
			OccurredAt:  tx.Date,
			Description: tx.Description,
			CategoryID:  tx.CategoryID,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("update transaction: %w", err)
	}
	return n, nil
}

// Delete removes the transaction. Goal progress is not reversed.
func (s *LedgerService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.Queries().DeleteTransaction(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	return n, nil
}

func (s *LedgerService) ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	items, err := s.store.Queries().ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

func requireCategory(ctx context.Context, q *storage.Queries, id int64) error {
	ok, err := q.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewConflictError(fmt.Sprintf("category %d does not exist", id))
	}
	return nil
}
