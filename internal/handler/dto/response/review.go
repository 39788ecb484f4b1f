package response

import (
	"time"

	"stayhub/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID              uuid.UUID `json:"id"`
	ReservationID   uuid.UUID `json:"reservationId"`
	AccommodationID uuid.UUID `json:"accommodationId"`
	GuestID         uuid.UUID `json:"guestId"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"createdAt"`
}

func FromReview(rev *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:              rev.ID(),
		ReservationID:   rev.ReservationID(),
		AccommodationID: rev.AccommodationID(),
		GuestID:         rev.GuestID(),
		Rating:          rev.Rating().Value(),
		Comment:         rev.Comment().String(),
		CreatedAt:       rev.CreatedAt(),
	}
}

type ReviewEligibilityResponse struct {
	CanReview bool `json:"canReview"`
}
