package queries

import (
	"context"

	"stayhub/internal/infra"
	"stayhub/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.New("reservation not found")

type ReservationReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListForAccommodation(ctx context.Context, accommodationID uuid.UUID, filter ListFilter) ([]*ReservationView, error)
	ListForGuest(ctx context.Context, guestID uuid.UUID) ([]*ReservationView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListForAccommodation(ctx context.Context, accommodationID uuid.UUID, filter ListFilter) ([]*ReservationView, error)
	ListForGuest(ctx context.Context, guestID uuid.UUID) ([]*ReservationView, error)
}

type reservationQueries struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueries{store: store}
}

func (q *reservationQueries) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueries) ListForAccommodation(ctx context.Context, accommodationID uuid.UUID, filter ListFilter) ([]*ReservationView, error) {
	return q.store.ListForAccommodation(ctx, accommodationID, filter)
}

func (q *reservationQueries) ListForGuest(ctx context.Context, guestID uuid.UUID) ([]*ReservationView, error) {
	return q.store.ListForGuest(ctx, guestID)
}
