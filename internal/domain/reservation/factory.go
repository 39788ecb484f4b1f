package reservation

import (
	"errors"

	"stayhub/internal/domain/accommodation"
	"stayhub/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrAccommodationNotBookable = errors.New("accommodation does not accept reservations")
	ErrCapacityExceeded         = errors.New("guest count exceeds accommodation capacity")
	ErrCheckinInPast            = errors.New("checkin date is in the past")
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clk clock.Clock, priceCalculator PriceCalculator) *Factory {
	return &Factory{
		Clock:           clk,
		PriceCalculator: priceCalculator,
	}
}

// CreateReservation applies every creation rule except availability, which
// needs the store and is enforced by the usecase inside the same transaction
// as the insert. New reservations always start pending.
func (f *Factory) CreateReservation(
	acc *accommodation.Accommodation,
	guestID uuid.UUID,
	period StayPeriod,
	guestCount int,
) (*Reservation, error) {
	if !acc.AcceptsReservations() {
		return nil, ErrAccommodationNotBookable
	}
	if !acc.FitsGuests(guestCount) {
		return nil, ErrCapacityExceeded
	}
	if period.Checkin().Before(f.Clock.Today()) {
		return nil, ErrCheckinInPast
	}

	price := NewMoney(f.PriceCalculator.PriceCents(acc.NightlyRateCents(), period))
	return newReservation(acc.ID(), guestID, period, guestCount, price, f.Clock.Now())
}
