package commands

import (
	"context"
	"time"

	"stayhub/internal/domain/accommodation"
	"stayhub/internal/domain/reservation"
	"stayhub/internal/domain/review"

	"github.com/google/uuid"
)

// ReservationRepository is the write-side port for the reservation calendar.
//
// CreateHolding must be atomic with respect to the availability check: the
// backing store either performs check-and-insert in one serializable unit or
// carries a uniqueness constraint over active overlapping periods so that
// the losing writer of a race is rejected with a conflict-kind error.
type ReservationRepository interface {
	CreateHolding(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Update persists the mutable lifecycle fields (status, cancellation).
	Update(ctx context.Context, res *reservation.Reservation) error
	// HasOverlap reports whether any holding reservation other than excludeID
	// overlaps the period on the accommodation.
	HasOverlap(ctx context.Context, accommodationID uuid.UUID, period reservation.StayPeriod, excludeID uuid.UUID) (bool, error)
	// DueForCompletion lists confirmed reservations whose checkout date has
	// passed as of today.
	DueForCompletion(ctx context.Context, today time.Time, limit int32) ([]uuid.UUID, error)
	// PendingCreatedBefore lists pending reservations created before the
	// cutoff, candidates for payment-timeout expiry.
	PendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int32) ([]uuid.UUID, error)
}

type ReviewRepository interface {
	// Create fails with a duplicate-key kind error when a review already
	// references the reservation.
	Create(ctx context.Context, rev *review.Review) error
	ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error)
}

// AccommodationCatalog is the external catalog collaborator, read-only.
type AccommodationCatalog interface {
	GetAccommodation(ctx context.Context, id uuid.UUID) (*accommodation.Accommodation, error)
}

// TransitionEvent is published on every successful lifecycle transition.
type TransitionEvent struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	AccommodationID uuid.UUID `json:"accommodation_id"`
	GuestID         uuid.UUID `json:"guest_id"`
	Status          string    `json:"status"`
	TotalPrice      float64   `json:"total_price"`
	Reason          string    `json:"reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// TransitionNotifier delivers fire-and-forget notifications. Implementations
// swallow and log their own failures; a notification must never roll back or
// fail a reservation transition.
type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, event TransitionEvent)
}
