package repository

import (
	"context"
	"errors"

	"stayhub/internal/domain/accommodation"
	"stayhub/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccommodationStore reads catalog snapshots synced from the external
// catalog service. The core never writes this table.
type AccommodationStore struct {
	pool *pgxpool.Pool
}

func NewAccommodationStore(pool *pgxpool.Pool) *AccommodationStore {
	return &AccommodationStore{pool: pool}
}

func (s *AccommodationStore) GetAccommodation(ctx context.Context, id uuid.UUID) (*accommodation.Accommodation, error) {
	const query = `
		SELECT id, name, nightly_rate_cents, capacity, status
		FROM accommodations
		WHERE id = $1`

	var (
		accID            uuid.UUID
		name             string
		nightlyRateCents int64
		capacity         int
		status           string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&accID, &name, &nightlyRateCents, &capacity, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("accommodation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find accommodation", err)
	}

	acc, err := accommodation.NewAccommodation(accID, name, nightlyRateCents, capacity, accommodation.Status(status))
	if err != nil {
		return nil, infra.WrapRepoErr("invalid accommodation snapshot", err)
	}
	return acc, nil
}
