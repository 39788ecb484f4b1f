package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read model returned to controllers. Flat fields,
// no domain types.
type ReservationView struct {
	ID              uuid.UUID
	AccommodationID uuid.UUID
	GuestID         uuid.UUID
	Checkin         time.Time
	Checkout        time.Time
	Nights          int
	GuestCount      int
	TotalPriceCents int64
	Status          string
	CancelReason    *string
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListFilter restricts a listing to reservations overlapping [From, To).
// Nil bounds are open.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}
