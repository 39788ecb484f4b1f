//go:build unit || integration

package builder

import (
	"time"

	"stayhub/internal/domain/reservation"

	"github.com/google/uuid"
)

// baseDay anchors builder dates far in the future so creation rules that
// compare against "today" never trip in tests that do not care about them.
var baseDay = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

type ReservationBuilder struct {
	ID              uuid.UUID
	AccommodationID uuid.UUID
	GuestID         uuid.UUID
	Checkin         time.Time
	Checkout        time.Time
	GuestCount      int
	PriceCents      int64
	Status          reservation.Status
	CancelReason    string
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := baseDay.Add(-14 * 24 * time.Hour)
	return &ReservationBuilder{
		ID:              uuid.New(),
		AccommodationID: uuid.New(),
		GuestID:         uuid.New(),
		Checkin:         baseDay,
		Checkout:        baseDay.Add(4 * 24 * time.Hour),
		GuestCount:      2,
		PriceCents:      400_00,
		Status:          reservation.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithStay(checkin, checkout time.Time) *ReservationBuilder {
	b.Checkin = checkin
	b.Checkout = checkout
	return b
}

// BuildDomain reconstructs the reservation as if loaded from the store, so
// any lifecycle state can be produced directly.
func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	period, err := reservation.NewStayPeriod(b.Checkin, b.Checkout)
	if err != nil {
		return nil, err
	}

	var reason *reservation.CancelReason
	if b.CancelReason != "" {
		cr, err := reservation.NewCancelReason(b.CancelReason)
		if err != nil {
			return nil, err
		}
		reason = &cr
	}

	return reservation.Reconstruct(
		b.ID, b.AccommodationID, b.GuestID,
		period, b.GuestCount,
		reservation.NewMoney(b.PriceCents),
		b.Status, reason, b.CancelledAt,
		b.CreatedAt, b.UpdatedAt,
	), nil
}

func (b *ReservationBuilder) MustBuild() *reservation.Reservation {
	res, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return res
}
