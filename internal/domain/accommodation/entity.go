package accommodation

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidRate     = errors.New("nightly rate must be positive")
	ErrInvalidCapacity = errors.New("guest capacity must be positive")
	ErrInvalidStatus   = errors.New("invalid accommodation status")
)

// Accommodation is a read-only snapshot of a catalog entry. The catalog
// itself is owned by an external service; this core only needs the fields
// that gate reservation creation.
type Accommodation struct {
	id               uuid.UUID
	name             string
	nightlyRateCents int64
	capacity         int
	status           Status
}

func NewAccommodation(id uuid.UUID, name string, nightlyRateCents int64, capacity int, status Status) (*Accommodation, error) {
	if nightlyRateCents <= 0 {
		return nil, ErrInvalidRate
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Accommodation{
		id:               id,
		name:             name,
		nightlyRateCents: nightlyRateCents,
		capacity:         capacity,
		status:           status,
	}, nil
}

func (a *Accommodation) ID() uuid.UUID           { return a.id }
func (a *Accommodation) Name() string            { return a.name }
func (a *Accommodation) NightlyRateCents() int64 { return a.nightlyRateCents }
func (a *Accommodation) Capacity() int           { return a.capacity }
func (a *Accommodation) Status() Status          { return a.status }

// AcceptsReservations reports whether new stays may be booked. Blocked and
// deleted listings keep their historical reservations but take no new ones.
func (a *Accommodation) AcceptsReservations() bool {
	return a.status == StatusActive
}

func (a *Accommodation) FitsGuests(count int) bool {
	return count > 0 && count <= a.capacity
}
