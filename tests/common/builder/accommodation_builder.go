//go:build unit || integration

package builder

import (
	"stayhub/internal/domain/accommodation"

	"github.com/google/uuid"
)

type AccommodationBuilder struct {
	ID               uuid.UUID
	Name             string
	NightlyRateCents int64
	Capacity         int
	Status           accommodation.Status
}

func NewAccommodationBuilder() *AccommodationBuilder {
	return &AccommodationBuilder{
		ID:               uuid.New(),
		Name:             "Seaside Cottage",
		NightlyRateCents: 100_00,
		Capacity:         4,
		Status:           accommodation.StatusActive,
	}
}

func (b *AccommodationBuilder) With(mutate func(*AccommodationBuilder)) *AccommodationBuilder {
	mutate(b)
	return b
}

func (b *AccommodationBuilder) BuildDomain() (*accommodation.Accommodation, error) {
	return accommodation.NewAccommodation(b.ID, b.Name, b.NightlyRateCents, b.Capacity, b.Status)
}

// MustBuild panics on invalid builder state; only for tests whose subject is
// not accommodation validation.
func (b *AccommodationBuilder) MustBuild() *accommodation.Accommodation {
	acc, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return acc
}
