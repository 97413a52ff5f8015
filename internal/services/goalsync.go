package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ad2m1109/Spendora/internal/amqp"
	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/log"
)

// GoalSync applies positive postings to the goal bound to their category.
type GoalSync struct {
	goals *GoalService
}

func NewGoalSync(goals *GoalService) *GoalSync {
	return &GoalSync{goals: goals}
}

func (g *GoalSync) HandlePosting(ctx context.Context, ev PostingEvent) error {
	n, err := g.goals.ApplyIncome(ctx, ev.CategoryID, ev.Amount)
	if err != nil {
		return err
	}
	fields := log.NewFields().
		WithComponent(log.ComponentGoalSync).
		WithPosting(ev.TransactionID, ev.UserID, ev.CategoryID, ev.Amount.Cents)
	if n == 0 {
		slog.DebugContext(ctx, "No goal bound to category", fields.ToSlice()...)
		return nil
	}
	slog.InfoContext(ctx, "Goal progress incremented", fields.ToSlice()...)
	return nil
}

// postingPublisher is the part of amqp.Client the publisher needs.
type postingPublisher interface {
	PublishPosting(ctx context.Context, msg *amqp.PostingMessage) error
}

// AMQPPostingPublisher forwards postings to the broker for the goal sync
// worker to apply.
type AMQPPostingPublisher struct {
	client postingPublisher
}

func NewAMQPPostingPublisher(client postingPublisher) *AMQPPostingPublisher {
	return &AMQPPostingPublisher{client: client}
}

func (p *AMQPPostingPublisher) HandlePosting(ctx context.Context, ev PostingEvent) error {
	msg := amqp.NewPostingMessage(ev.TransactionID, ev.UserID, ev.CategoryID, ev.Amount.Cents, ev.Date)
	if err := p.client.PublishPosting(ctx, msg); err != nil {
		return fmt.Errorf("publish posting: %w", err)
	}
	return nil
}

// PostingEventFromMessage converts a broker message back into an event.
func PostingEventFromMessage(msg *amqp.PostingMessage) PostingEvent {
	return PostingEvent{
		TransactionID: msg.TransactionID,
		UserID:        msg.UserID,
		CategoryID:    msg.CategoryID,
		Amount:        core.Money{Cents: msg.AmountCents},
		Date:          msg.Date,
	}
}
