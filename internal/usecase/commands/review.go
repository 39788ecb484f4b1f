package commands

import (
	"context"
	"errors"

	"stayhub/internal/domain/review"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotEligible   = errs.New("reservation is not eligible for review")
	ErrInvalidReview = errs.New("invalid review content")
)

type AttachReviewParams struct {
	ReservationID uuid.UUID
	AuthorID      uuid.UUID
	Rating        int
	Comment       string
}

type ReviewCommands interface {
	// CanReview reports review eligibility without side effects: the
	// reservation must belong to the author, be completed, and not yet
	// reviewed.
	CanReview(ctx context.Context, reservationID, authorID uuid.UUID) (bool, error)
	AttachReview(ctx context.Context, params AttachReviewParams) (*review.Review, error)
}

type reviewCommands struct {
	reviews      ReviewRepository
	reservations ReservationRepository
	clock        clock.Clock
}

func NewReviewCommands(reviews ReviewRepository, reservations ReservationRepository, clk clock.Clock) ReviewCommands {
	return &reviewCommands{
		reviews:      reviews,
		reservations: reservations,
		clock:        clk,
	}
}

func (c *reviewCommands) CanReview(ctx context.Context, reservationID, authorID uuid.UUID) (bool, error) {
	res, err := c.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, ErrReservationNotFound
		}
		return false, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	exists, err := c.reviews.ExistsForReservation(ctx, reservationID)
	if err != nil {
		return false, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return review.Eligibility(res, authorID, exists) == nil, nil
}

func (c *reviewCommands) AttachReview(ctx context.Context, params AttachReviewParams) (*review.Review, error) {
	res, err := c.reservations.FindByID(ctx, params.ReservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	exists, err := c.reviews.ExistsForReservation(ctx, params.ReservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	rev, err := review.NewForStay(res, params.AuthorID, params.Rating, params.Comment, exists, c.clock.Now())
	if err != nil {
		return nil, markReviewErr(err)
	}

	if err := c.reviews.Create(ctx, rev); err != nil {
		// Unique index on reservation_id catches the race between the
		// eligibility check and the insert.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrNotEligible
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rev, nil
}

func markReviewErr(err error) error {
	switch {
	case errors.Is(err, review.ErrNotOwner),
		errors.Is(err, review.ErrStayNotComplete),
		errors.Is(err, review.ErrAlreadyReviewed):
		return errs.Mark(err, ErrNotEligible)
	default:
		return errs.Mark(err, ErrInvalidReview)
	}
}
