package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type SweepReport struct {
	Completed int
	Expired   int
	Failed    int
}

// CompletionCommands advances reservations the calendar has moved past:
// confirmed stays whose checkout has elapsed become completed, and pending
// holds older than the payment window are expired. Sweeps never raise to the
// caller; per-reservation failures are logged and skipped.
type CompletionCommands interface {
	Sweep(ctx context.Context) SweepReport
}

type completionCommands struct {
	reservations ReservationRepository
	notifier     TransitionNotifier
	clock        clock.Clock
	batchSize    int32
	workers      int64
	pendingTTL   time.Duration
}

func NewCompletionCommands(
	reservations ReservationRepository,
	notifier TransitionNotifier,
	clk clock.Clock,
	batchSize int32,
	workers int64,
	pendingTTL time.Duration,
) CompletionCommands {
	if workers < 1 {
		workers = 1
	}
	return &completionCommands{
		reservations: reservations,
		notifier:     notifier,
		clock:        clk,
		batchSize:    batchSize,
		workers:      workers,
		pendingTTL:   pendingTTL,
	}
}

func (c *completionCommands) Sweep(ctx context.Context) SweepReport {
	var report SweepReport

	completed, failed := c.sweepCompleted(ctx)
	report.Completed, report.Failed = completed, failed

	expired, failedExpiry := c.sweepExpiredPending(ctx)
	report.Expired = expired
	report.Failed += failedExpiry

	outcome := "ok"
	if report.Failed > 0 {
		outcome = "partial"
	}
	metrics.SweepRuns.WithLabelValues(outcome).Inc()
	return report
}

func (c *completionCommands) sweepCompleted(ctx context.Context) (done, failed int) {
	today := c.clock.Today()
	ids, err := c.reservations.DueForCompletion(ctx, today, c.batchSize)
	if err != nil {
		slog.Error("completion sweep query failed", "error", err)
		return 0, 1
	}
	return c.forEach(ctx, ids, "complete", func(res *reservation.Reservation) error {
		return res.Complete(today)
	})
}

func (c *completionCommands) sweepExpiredPending(ctx context.Context) (done, failed int) {
	cutoff := c.clock.Now().Add(-c.pendingTTL)
	ids, err := c.reservations.PendingCreatedBefore(ctx, cutoff, c.batchSize)
	if err != nil {
		slog.Error("pending expiry query failed", "error", err)
		return 0, 1
	}
	now := c.clock.Now()
	return c.forEach(ctx, ids, "expire", func(res *reservation.Reservation) error {
		return res.Expire(now)
	})
}

// forEach applies the transition to each reservation with bounded
// concurrency. Each attempt is isolated: one failure never aborts the rest.
func (c *completionCommands) forEach(ctx context.Context, ids []uuid.UUID, kind string, transition func(*reservation.Reservation) error) (done, failed int) {
	sem := semaphore.NewWeighted(c.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			slog.Warn("sweep interrupted", "kind", kind, "error", err)
			break
		}
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			defer sem.Release(1)

			err := c.transitionOne(ctx, id, transition)
			mu.Lock()
			if err != nil {
				failed++
			} else {
				done++
			}
			mu.Unlock()

			outcome := "ok"
			if err != nil {
				outcome = "error"
				slog.Warn("sweep transition failed", "kind", kind, "reservation_id", id, "error", err)
			}
			metrics.SweepTransitions.WithLabelValues(kind, outcome).Inc()
		}(id)
	}
	wg.Wait()
	return done, failed
}

func (c *completionCommands) transitionOne(ctx context.Context, id uuid.UUID, transition func(*reservation.Reservation) error) error {
	res, err := c.reservations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status().IsTerminal() {
		// The row reached a terminal state between listing and load;
		// nothing left to do.
		return nil
	}
	if err := transition(res); err != nil {
		return err
	}
	if err := c.reservations.Update(ctx, res); err != nil {
		return err
	}
	c.notifier.NotifyTransition(ctx, TransitionEvent{
		ReservationID:   res.ID(),
		AccommodationID: res.AccommodationID(),
		GuestID:         res.GuestID(),
		Status:          res.Status().String(),
		TotalPrice:      res.Price().Dollars(),
		Reason:          cancelReasonString(res),
		OccurredAt:      c.clock.Now(),
	})
	return nil
}

func cancelReasonString(res *reservation.Reservation) string {
	if r := res.CancelReason(); r != nil {
		return r.String()
	}
	return ""
}
