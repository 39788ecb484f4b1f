package review

import (
	"errors"
	"time"

	"stayhub/internal/domain/reservation"

	"github.com/google/uuid"
)

var (
	ErrNotOwner        = errors.New("reservation belongs to another guest")
	ErrStayNotComplete = errors.New("reservation is not completed")
	ErrAlreadyReviewed = errors.New("review already exists for this reservation")
)

// Review references exactly one reservation. Exactly-once is enforced both
// here (existing-review lookup) and by a unique index on reservation_id.
type Review struct {
	id              uuid.UUID
	reservationID   uuid.UUID
	guestID         uuid.UUID
	accommodationID uuid.UUID
	rating          Rating
	comment         Comment
	createdAt       time.Time
}

// NewForStay builds a review for a completed stay owned by the author.
// hasExisting is the existing-review lookup result supplied by the caller.
func NewForStay(res *reservation.Reservation, authorID uuid.UUID, ratingValue int, commentText string, hasExisting bool, now time.Time) (*Review, error) {
	if err := Eligibility(res, authorID, hasExisting); err != nil {
		return nil, err
	}

	rating, err := NewRating(ratingValue)
	if err != nil {
		return nil, err
	}
	comment, err := NewComment(commentText)
	if err != nil {
		return nil, err
	}

	return &Review{
		id:              uuid.New(),
		reservationID:   res.ID(),
		guestID:         authorID,
		accommodationID: res.AccommodationID(),
		rating:          rating,
		comment:         comment,
		createdAt:       now,
	}, nil
}

// Eligibility is the review guard: owner only, completed stays only, one
// review per reservation.
func Eligibility(res *reservation.Reservation, authorID uuid.UUID, hasExisting bool) error {
	if !res.BelongsTo(authorID) {
		return ErrNotOwner
	}
	if res.Status() != reservation.StatusCompleted {
		return ErrStayNotComplete
	}
	if hasExisting {
		return ErrAlreadyReviewed
	}
	return nil
}

func (r *Review) ID() uuid.UUID              { return r.id }
func (r *Review) ReservationID() uuid.UUID   { return r.reservationID }
func (r *Review) GuestID() uuid.UUID         { return r.guestID }
func (r *Review) AccommodationID() uuid.UUID { return r.accommodationID }
func (r *Review) Rating() Rating             { return r.rating }
func (r *Review) Comment() Comment           { return r.comment }
func (r *Review) CreatedAt() time.Time       { return r.createdAt }
