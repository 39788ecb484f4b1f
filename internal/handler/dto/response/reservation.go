package response

import (
	"time"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID              uuid.UUID  `json:"id"`
	AccommodationID uuid.UUID  `json:"accommodationId"`
	GuestID         uuid.UUID  `json:"guestId"`
	Checkin         string     `json:"checkin"`
	Checkout        string     `json:"checkout"`
	Nights          int        `json:"nights"`
	GuestCount      int        `json:"guestCount"`
	TotalPriceCents int64      `json:"totalPriceCents"`
	Status          string     `json:"status"`
	CancelReason    *string    `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func FromReservation(res *reservation.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:              res.ID(),
		AccommodationID: res.AccommodationID(),
		GuestID:         res.GuestID(),
		Checkin:         res.Period().Checkin().Format(time.DateOnly),
		Checkout:        res.Period().Checkout().Format(time.DateOnly),
		Nights:          res.Period().Nights(),
		GuestCount:      res.GuestCount(),
		TotalPriceCents: res.Price().Cents(),
		Status:          res.Status().String(),
		CancelledAt:     res.CancelledAt(),
		CreatedAt:       res.CreatedAt(),
		UpdatedAt:       res.UpdatedAt(),
	}
	if reason := res.CancelReason(); reason != nil {
		v := reason.String()
		resp.CancelReason = &v
	}
	return resp
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:              view.ID,
		AccommodationID: view.AccommodationID,
		GuestID:         view.GuestID,
		Checkin:         view.Checkin.Format(time.DateOnly),
		Checkout:        view.Checkout.Format(time.DateOnly),
		Nights:          view.Nights,
		GuestCount:      view.GuestCount,
		TotalPriceCents: view.TotalPriceCents,
		Status:          view.Status,
		CancelReason:    view.CancelReason,
		CancelledAt:     view.CancelledAt,
		CreatedAt:       view.CreatedAt,
		UpdatedAt:       view.UpdatedAt,
	}
}
