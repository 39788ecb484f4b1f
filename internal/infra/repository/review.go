package repository

import (
	"context"

	"stayhub/internal/domain/review"
	"stayhub/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create relies on the unique index over reservation_id for the one-review-
// per-stay rule; a duplicate insert surfaces as a duplicate-key kind.
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	const query = `
		INSERT INTO reviews (id, reservation_id, guest_id, accommodation_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		rev.ID(),
		rev.ReservationID(),
		rev.GuestID(),
		rev.AccommodationID(),
		rev.Rating().Value(),
		rev.Comment().String(),
		rev.CreatedAt(),
	)
	if err != nil {
		return classifyPgErr("failed to create review", err)
	}
	return nil
}

func (r *ReviewRepository) ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reviews WHERE reservation_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, reservationID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check existing review", err)
	}
	return exists, nil
}
