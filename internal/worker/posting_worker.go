// Package worker applies goal postings delivered over AMQP and runs the
// optional reconcile schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ad2m1109/Spendora/internal/amqp"
	"github.com/Ad2m1109/Spendora/internal/services"
)

// Reconciler recomputes every goal from the ledger.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (int64, error)
}

// PostingWorker hands broker messages to the goal sync handler.
type PostingWorker struct {
	postings   services.PostingHandler
	reconciler Reconciler
}

func NewPostingWorker(postings services.PostingHandler, reconciler Reconciler) *PostingWorker {
	return &PostingWorker{
		postings:   postings,
		reconciler: reconciler,
	}
}

// HandlePostingMessage applies a single posting. A returned error makes the
// consumer requeue the message.
func (w *PostingWorker) HandlePostingMessage(ctx context.Context, msg *amqp.PostingMessage) error {
	if msg == nil {
		return errors.New("nil posting message")
	}

	slog.InfoContext(ctx, "Processing posting message",
		"transaction_id", msg.TransactionID,
		"category_id", msg.CategoryID,
		"amount_cents", msg.AmountCents)

	if msg.AmountCents <= 0 {
		// Only income reaches the queue; anything else was published by mistake.
		slog.WarnContext(ctx, "Ignoring non-positive posting",
			"transaction_id", msg.TransactionID,
			"amount_cents", msg.AmountCents)
		return nil
	}

	if err := w.postings.HandlePosting(ctx, services.PostingEventFromMessage(msg)); err != nil {
		return fmt.Errorf("apply posting %d: %w", msg.TransactionID, err)
	}
	return nil
}

// Reconcile recomputes all goals. It is a no-op without a reconciler.
func (w *PostingWorker) Reconcile(ctx context.Context) error {
	if w.reconciler == nil {
		return nil
	}
	n, err := w.reconciler.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("reconcile goals: %w", err)
	}
	slog.InfoContext(ctx, "Reconcile completed", "goals", n)
	return nil
}

// consumer is the part of amqp.Client the worker drives.
type consumer interface {
	RunConsumer(ctx context.Context, handler func(context.Context, *amqp.PostingMessage) error) error
}

// Run consumes postings until ctx is cancelled. Cancellation is not an error.
func (w *PostingWorker) Run(ctx context.Context, c consumer) error {
	err := c.RunConsumer(ctx, w.HandlePostingMessage)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
