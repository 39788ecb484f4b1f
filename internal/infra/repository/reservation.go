package repository

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes that the booking path cares about. 23P01 is raised by
// the exclusion constraint guarding overlapping holdings.
const (
	pgErrCodeExclusionViolation   = "23P01"
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// CreateHolding inserts a new pending reservation. The reservations table
// carries an EXCLUDE constraint over (accommodation_id, stay daterange)
// filtered to holding states, so the insert itself is the atomic
// check-and-insert: the losing writer of a concurrent overlap gets a
// conflict-kind error straight from the store.
func (r *ReservationRepository) CreateHolding(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations
			(id, accommodation_id, guest_id, checkin, checkout, guest_count, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		res.ID(),
		res.AccommodationID(),
		res.GuestID(),
		res.Period().Checkin(),
		res.Period().Checkout(),
		res.GuestCount(),
		res.Price().Cents(),
		res.Status().String(),
	)
	if err != nil {
		return classifyPgErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const query = `
		SELECT id, accommodation_id, guest_id, checkin, checkout, guest_count,
		       total_price_cents, status, cancel_reason, cancelled_at, created_at, updated_at
		FROM reservations
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		UPDATE reservations
		SET status = $2, cancel_reason = $3, cancelled_at = $4, updated_at = now()
		WHERE id = $1`

	var reason *string
	if cr := res.CancelReason(); cr != nil {
		v := cr.String()
		reason = &v
	}

	tag, err := r.pool.Exec(ctx, query, res.ID(), res.Status().String(), reason, res.CancelledAt())
	if err != nil {
		return classifyPgErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) HasOverlap(ctx context.Context, accommodationID uuid.UUID, period reservation.StayPeriod, excludeID uuid.UUID) (bool, error) {
	// Same daterange overlap operator as the exclusion constraint, so this
	// re-check and the insert guard can never disagree on a boundary.
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE accommodation_id = $1
			  AND id <> $2
			  AND status IN ('pending', 'confirmed')
			  AND daterange(checkin, checkout) && $3::daterange
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, accommodationID, excludeID, period.ToDaterange()).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check overlap", err)
	}
	return exists, nil
}

func (r *ReservationRepository) DueForCompletion(ctx context.Context, today time.Time, limit int32) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM reservations
		WHERE status = 'confirmed' AND checkout <= $1
		ORDER BY checkout
		LIMIT $2`

	return r.queryIDs(ctx, "failed to list reservations due for completion", query, today, limit)
}

func (r *ReservationRepository) PendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int32) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM reservations
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`

	return r.queryIDs(ctx, "failed to list expired pending reservations", query, cutoff, limit)
}

func (r *ReservationRepository) queryIDs(ctx context.Context, msg, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(msg, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return ids, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, accommodationID, guestID uuid.UUID
		checkin, checkout            time.Time
		guestCount                   int
		priceCents                   int64
		statusStr                    string
		cancelReason                 *string
		cancelledAt                  *time.Time
		createdAt, updatedAt         time.Time
	)
	err := row.Scan(&id, &accommodationID, &guestID, &checkin, &checkout, &guestCount,
		&priceCents, &statusStr, &cancelReason, &cancelledAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	period, err := reservation.NewStayPeriod(checkin, checkout)
	if err != nil {
		return nil, err
	}
	status, err := reservation.ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}
	var reason *reservation.CancelReason
	if cancelReason != nil {
		cr, err := reservation.NewCancelReason(*cancelReason)
		if err != nil {
			return nil, err
		}
		reason = &cr
	}

	return reservation.Reconstruct(
		id, accommodationID, guestID,
		period, guestCount,
		reservation.NewMoney(priceCents),
		status, reason, cancelledAt,
		createdAt, updatedAt,
	), nil
}

func classifyPgErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
			return infra.WrapRepoErr(msg, err, infra.KindSerialization)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
