package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Ad2m1109/Spendora/internal/log"
)

// Scheduler runs reconcile passes on a standard five-field cron expression.
type Scheduler struct {
	cron    *cron.Cron
	worker  *PostingWorker
	timeout time.Duration
	logger  *log.Logger
}

// NewScheduler returns nil when schedule is empty, meaning reconcile is off.
func NewScheduler(schedule string, w *PostingWorker, timeout time.Duration, logger *log.Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Scheduler{
		cron:    cron.New(),
		worker:  w,
		timeout: timeout,
		logger:  logger.WithComponent(log.ComponentScheduler),
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("schedule reconcile %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.worker.Reconcile(ctx); err != nil {
		s.logger.LogError(ctx, "Scheduled reconcile failed", log.OpReconcile, err)
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("Reconcile schedule enabled; goal progress will be recomputed from the ledger",
		"entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop halts the schedule and waits for a running pass or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
