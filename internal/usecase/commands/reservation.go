package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrAccommodationNotFound    = errs.New("accommodation not found")
	ErrAccommodationUnavailable = errs.New("accommodation does not accept reservations")
	ErrInvalidStayPeriod        = errs.New("invalid stay period")
	ErrCapacityExceeded         = errs.New("guest count exceeds capacity")
	ErrUnavailable              = errs.New("stay period is not available")
	ErrStaleAvailability        = errs.New("availability lost since creation")
	ErrReservationNotFound      = errs.New("reservation not found")
	ErrIllegalTransition        = errs.New("illegal state transition")
	ErrCancellationWindowClosed = errs.New("cancellation window closed")
	ErrCancelReasonRequired     = errs.New("cancellation reason required")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")
)

type CreateReservationParams struct {
	AccommodationID uuid.UUID
	GuestID         uuid.UUID
	Checkin         time.Time
	Checkout        time.Time
	GuestCount      int
}

type ReservationCommands interface {
	Create(ctx context.Context, params CreateReservationParams) (*reservation.Reservation, error)
	// Confirm is invoked by the payment collaborator after capture succeeds.
	Confirm(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error)
	// Cancel is a guest or policy action. A nil actorID means a system
	// caller (payment failure webhook) and skips the ownership check.
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error)
}

type reservationCommands struct {
	reservations ReservationRepository
	catalog      AccommodationCatalog
	notifier     TransitionNotifier
	factory      *reservation.Factory
	clock        clock.Clock
	maxRetries   int
}

func NewReservationCommands(
	reservations ReservationRepository,
	catalog AccommodationCatalog,
	notifier TransitionNotifier,
	factory *reservation.Factory,
	clk clock.Clock,
	maxRetries int,
) ReservationCommands {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &reservationCommands{
		reservations: reservations,
		catalog:      catalog,
		notifier:     notifier,
		factory:      factory,
		clock:        clk,
		maxRetries:   maxRetries,
	}
}

func (c *reservationCommands) Create(ctx context.Context, params CreateReservationParams) (*reservation.Reservation, error) {
	acc, err := c.catalog.GetAccommodation(ctx, params.AccommodationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	period, err := reservation.NewStayPeriod(params.Checkin, params.Checkout)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStayPeriod)
	}

	res, err := c.factory.CreateReservation(acc, params.GuestID, period, params.GuestCount)
	if err != nil {
		return nil, markFactoryErr(err)
	}

	if err := c.insertWithRetry(ctx, res); err != nil {
		return nil, err
	}

	metrics.ObserveTransition(reservation.StatusPending.String(), nil)
	c.notify(ctx, res)
	return res, nil
}

// insertWithRetry performs the atomic check-and-insert. A conflict kind means
// the store rejected an overlapping holding, which is a final answer. A
// serialization kind is transient and retried a bounded number of times
// before surfacing as unavailable.
func (c *reservationCommands) insertWithRetry(ctx context.Context, res *reservation.Reservation) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		err := c.reservations.CreateHolding(ctx, res)
		if err == nil {
			return nil
		}
		if infra.IsKind(err, infra.KindConflict) {
			return ErrUnavailable
		}
		if !infra.IsKind(err, infra.KindSerialization) {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	slog.Warn("reservation insert exhausted retries",
		"reservation_id", res.ID(), "attempts", c.maxRetries, "error", lastErr)
	return errs.Mark(lastErr, ErrUnavailable)
}

func (c *reservationCommands) Confirm(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error) {
	res, err := c.findReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	// Defensive re-check: a competing reservation may have been confirmed
	// between creation and payment capture. The caller must restart the
	// booking when availability was lost.
	overlap, err := c.reservations.HasOverlap(ctx, res.AccommodationID(), res.Period(), res.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if overlap {
		return nil, ErrStaleAvailability
	}

	if err := res.Confirm(); err != nil {
		metrics.ObserveTransition(reservation.StatusConfirmed.String(), err)
		return nil, errs.Mark(err, ErrIllegalTransition)
	}
	if err := c.reservations.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveTransition(reservation.StatusConfirmed.String(), nil)
	c.notify(ctx, res)
	return res, nil
}

func (c *reservationCommands) Cancel(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error) {
	res, err := c.findReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil && !res.BelongsTo(actorID) {
		return nil, ErrReservationNotFound
	}

	cancelReason, err := reservation.NewCancelReason(reason)
	if err != nil {
		return nil, errs.Mark(err, ErrCancelReasonRequired)
	}

	if err := res.Cancel(cancelReason, c.clock.Now()); err != nil {
		metrics.ObserveTransition(reservation.StatusCancelled.String(), err)
		switch {
		case errors.Is(err, reservation.ErrCancellationWindowClosed):
			return nil, ErrCancellationWindowClosed
		default:
			return nil, errs.Mark(err, ErrIllegalTransition)
		}
	}
	if err := c.reservations.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveTransition(reservation.StatusCancelled.String(), nil)
	c.notify(ctx, res)
	return res, nil
}

func (c *reservationCommands) findReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := c.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res, nil
}

func (c *reservationCommands) notify(ctx context.Context, res *reservation.Reservation) {
	event := TransitionEvent{
		ReservationID:   res.ID(),
		AccommodationID: res.AccommodationID(),
		GuestID:         res.GuestID(),
		Status:          res.Status().String(),
		TotalPrice:      res.Price().Dollars(),
		OccurredAt:      c.clock.Now(),
	}
	if reason := res.CancelReason(); reason != nil {
		event.Reason = reason.String()
	}
	c.notifier.NotifyTransition(ctx, event)
}

func markFactoryErr(err error) error {
	switch {
	case errors.Is(err, reservation.ErrAccommodationNotBookable):
		return ErrAccommodationUnavailable
	case errors.Is(err, reservation.ErrCapacityExceeded):
		return ErrCapacityExceeded
	case errors.Is(err, reservation.ErrCheckinInPast),
		errors.Is(err, reservation.ErrInvalidStayPeriod):
		return errs.Mark(err, ErrInvalidStayPeriod)
	default:
		return errs.Mark(err, ErrInvalidStayPeriod)
	}
}
