package request

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidDate = errors.New("dates must be in YYYY-MM-DD format")

type CreateReservationRequest struct {
	AccommodationID uuid.UUID `json:"accommodation_id" binding:"required"`
	Checkin         string    `json:"checkin" binding:"required"`
	Checkout        string    `json:"checkout" binding:"required"`
	GuestCount      int       `json:"guest_count" binding:"required,min=1"`
}

// ParseDates converts the wire format (date-only strings) into times.
// Interval validity (checkout after checkin) is a domain rule, not a
// binding rule.
func (r CreateReservationRequest) ParseDates() (checkin, checkout time.Time, err error) {
	checkin, err = time.Parse(time.DateOnly, r.Checkin)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	checkout, err = time.Parse(time.DateOnly, r.Checkout)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return checkin, checkout, nil
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required"`
}
