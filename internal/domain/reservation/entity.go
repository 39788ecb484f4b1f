package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrIllegalTransition        = errors.New("transition not permitted from current state")
	ErrCancellationWindowClosed = errors.New("stay has already started")
	ErrStayNotEnded             = errors.New("checkout date has not passed")
	ErrNegativePrice            = errors.New("price cannot be negative")
)

type Reservation struct {
	id              uuid.UUID
	accommodationID uuid.UUID
	guestID         uuid.UUID
	period          StayPeriod
	guestCount      int
	price           Money
	status          Status
	cancelReason    *CancelReason
	cancelledAt     *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func newReservation(accommodationID, guestID uuid.UUID, period StayPeriod, guestCount int, price Money, now time.Time) (*Reservation, error) {
	if price.Cents() < 0 {
		return nil, ErrNegativePrice
	}
	return &Reservation{
		id:              uuid.New(),
		accommodationID: accommodationID,
		guestID:         guestID,
		period:          period,
		guestCount:      guestCount,
		price:           price,
		status:          StatusPending,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a reservation from its persisted form. No invariants
// are re-checked; the store is trusted for historical rows.
func Reconstruct(
	id, accommodationID, guestID uuid.UUID,
	period StayPeriod,
	guestCount int,
	price Money,
	status Status,
	cancelReason *CancelReason,
	cancelledAt *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		accommodationID: accommodationID,
		guestID:         guestID,
		period:          period,
		guestCount:      guestCount,
		price:           price,
		status:          status,
		cancelReason:    cancelReason,
		cancelledAt:     cancelledAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Confirm moves a pending reservation to confirmed. The availability
// re-check that guards against a competing confirmation belongs to the
// caller; here only the state machine is enforced.
func (r *Reservation) Confirm() error {
	if !r.status.CanTransitionTo(StatusConfirmed) {
		return ErrIllegalTransition
	}
	r.status = StatusConfirmed
	return nil
}

// Cancel is legal from pending or confirmed, and only before the stay has
// started.
func (r *Reservation) Cancel(reason CancelReason, now time.Time) error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrIllegalTransition
	}
	if r.period.StartedBy(now) {
		return ErrCancellationWindowClosed
	}
	r.markCancelled(reason, now)
	return nil
}

// Expire cancels a pending reservation whose payment never arrived. Unlike
// Cancel it ignores the check-in window: an unpaid hold is released even on
// the day of arrival.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusPending {
		return ErrIllegalTransition
	}
	reason, _ := NewCancelReason(ReasonPaymentTimeout)
	r.markCancelled(reason, now)
	return nil
}

// Complete is the system-only transition run after checkout has passed.
// Completing an already completed reservation is a no-op so the sweeper can
// race itself safely.
func (r *Reservation) Complete(today time.Time) error {
	if r.status == StatusCompleted {
		return nil
	}
	if !r.status.CanTransitionTo(StatusCompleted) {
		return ErrIllegalTransition
	}
	if !r.period.EndedBy(today) {
		return ErrStayNotEnded
	}
	r.status = StatusCompleted
	return nil
}

func (r *Reservation) markCancelled(reason CancelReason, now time.Time) {
	r.status = StatusCancelled
	r.cancelReason = &reason
	r.cancelledAt = &now
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) AccommodationID() uuid.UUID  { return r.accommodationID }
func (r *Reservation) GuestID() uuid.UUID          { return r.guestID }
func (r *Reservation) Period() StayPeriod          { return r.period }
func (r *Reservation) GuestCount() int             { return r.guestCount }
func (r *Reservation) Price() Money                { return r.price }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) CancelReason() *CancelReason { return r.cancelReason }
func (r *Reservation) CancelledAt() *time.Time     { return r.cancelledAt }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }

func (r *Reservation) BelongsTo(guestID uuid.UUID) bool {
	return r.guestID == guestID
}

// Holding reports whether this reservation still occupies its stay period.
func (r *Reservation) Holding() bool {
	return r.status.Holding()
}
