package readstore

import (
	"context"
	"errors"

	"stayhub/internal/infra"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

const reservationColumns = `
	id, accommodation_id, guest_id, checkin, checkout, guest_count,
	total_price_cents, status, cancel_reason, cancelled_at, created_at, updated_at`

func (r *ReservationReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1`

	view, err := scanView(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}
	return view, nil
}

func (r *ReservationReadStore) ListForAccommodation(ctx context.Context, accommodationID uuid.UUID, filter queries.ListFilter) ([]*queries.ReservationView, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE accommodation_id = $1`
	args := []any{accommodationID}

	// Date filter uses the same half-open overlap predicate as availability.
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND checkout > $2`
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		if filter.From != nil {
			query += ` AND checkin < $3`
		} else {
			query += ` AND checkin < $2`
		}
	}
	query += ` ORDER BY checkin`

	return r.queryViews(ctx, query, args...)
}

func (r *ReservationReadStore) ListForGuest(ctx context.Context, guestID uuid.UUID) ([]*queries.ReservationView, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE guest_id = $1 ORDER BY created_at DESC`
	return r.queryViews(ctx, query, guestID)
}

func (r *ReservationReadStore) queryViews(ctx context.Context, query string, args ...any) ([]*queries.ReservationView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return views, nil
}

func scanView(row pgx.Row) (*queries.ReservationView, error) {
	var v queries.ReservationView
	err := row.Scan(
		&v.ID, &v.AccommodationID, &v.GuestID,
		&v.Checkin, &v.Checkout, &v.GuestCount,
		&v.TotalPriceCents, &v.Status, &v.CancelReason, &v.CancelledAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Nights = int(v.Checkout.Sub(v.Checkin).Hours() / 24)
	return &v, nil
}

var _ queries.ReservationReadStore = (*ReservationReadStore)(nil)
