//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"stayhub/internal/domain/accommodation"
	"stayhub/internal/domain/reservation"
	"stayhub/internal/domain/review"
	"stayhub/internal/infra"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeReservationRepo mirrors the store's behavior closely enough for the
// command layer: the insert path performs its overlap check and the insert
// under one lock, so racing creates resolve to exactly one winner just like
// the real exclusion constraint.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*reservation.Reservation

	// serializationFailures makes the next N inserts fail with a
	// serialization kind before succeeding.
	serializationFailures int
	failFind              error
	failUpdate            error

	// forceDue overrides the completion listing, so tests can stage rows
	// whose state changed after being listed.
	forceDue []uuid.UUID
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*reservation.Reservation)}
}

func (f *fakeReservationRepo) add(res *reservation.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[res.ID()] = res
}

// snapshot detaches a stored reservation from the caller's pointer, the way
// a real store round-trips rows: an entity mutated in memory but never
// persisted must not change what the next read returns.
func snapshot(res *reservation.Reservation) *reservation.Reservation {
	var reason *reservation.CancelReason
	if r := res.CancelReason(); r != nil {
		v := *r
		reason = &v
	}
	var cancelledAt *time.Time
	if at := res.CancelledAt(); at != nil {
		v := *at
		cancelledAt = &v
	}
	return reservation.Reconstruct(
		res.ID(), res.AccommodationID(), res.GuestID(),
		res.Period(), res.GuestCount(), res.Price(),
		res.Status(), reason, cancelledAt,
		res.CreatedAt(), res.UpdatedAt(),
	)
}

func (f *fakeReservationRepo) get(id uuid.UUID) *reservation.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reservations[id]
}

func (f *fakeReservationRepo) CreateHolding(_ context.Context, res *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.serializationFailures > 0 {
		f.serializationFailures--
		return infra.WrapRepoErr("serialization failure", nil, infra.KindSerialization)
	}

	for _, existing := range f.reservations {
		if existing.AccommodationID() == res.AccommodationID() &&
			existing.Holding() &&
			existing.Period().Overlaps(res.Period()) {
			return infra.WrapRepoErr("overlapping holding", nil, infra.KindConflict)
		}
	}
	f.reservations[res.ID()] = snapshot(res)
	return nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFind != nil {
		return nil, f.failFind
	}
	res, ok := f.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return snapshot(res), nil
}

func (f *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	f.reservations[res.ID()] = snapshot(res)
	return nil
}

func (f *fakeReservationRepo) HasOverlap(_ context.Context, accommodationID uuid.UUID, period reservation.StayPeriod, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.reservations {
		if existing.ID() == excludeID {
			continue
		}
		if existing.AccommodationID() == accommodationID &&
			existing.Holding() &&
			existing.Period().Overlaps(period) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationRepo) DueForCompletion(_ context.Context, today time.Time, limit int32) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forceDue != nil {
		return f.forceDue, nil
	}

	var ids []uuid.UUID
	for id, res := range f.reservations {
		if int32(len(ids)) >= limit {
			break
		}
		if res.Status() == reservation.StatusConfirmed && res.Period().EndedBy(today) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeReservationRepo) PendingCreatedBefore(_ context.Context, cutoff time.Time, limit int32) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []uuid.UUID
	for id, res := range f.reservations {
		if int32(len(ids)) >= limit {
			break
		}
		if res.Status() == reservation.StatusPending && res.CreatedAt().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeCatalog struct {
	mu             sync.Mutex
	accommodations map[uuid.UUID]*accommodation.Accommodation
}

func newFakeCatalog(accs ...*accommodation.Accommodation) *fakeCatalog {
	c := &fakeCatalog{accommodations: make(map[uuid.UUID]*accommodation.Accommodation)}
	for _, acc := range accs {
		c.accommodations[acc.ID()] = acc
	}
	return c
}

func (c *fakeCatalog) GetAccommodation(_ context.Context, id uuid.UUID) (*accommodation.Accommodation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc, ok := c.accommodations[id]
	if !ok {
		return nil, infra.WrapRepoErr("accommodation not found", nil, infra.KindNotFound)
	}
	return acc, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*review.Review // keyed by reservation ID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*review.Review)}
}

func (f *fakeReviewRepo) Create(_ context.Context, rev *review.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[rev.ReservationID()]; ok {
		return infra.WrapRepoErr("review already exists", nil, infra.KindDuplicateKey)
	}
	f.reviews[rev.ReservationID()] = rev
	return nil
}

func (f *fakeReviewRepo) ExistsForReservation(_ context.Context, reservationID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.reviews[reservationID]
	return ok, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []commands.TransitionEvent
}

func (n *recordingNotifier) NotifyTransition(_ context.Context, event commands.TransitionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) all() []commands.TransitionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]commands.TransitionEvent, len(n.events))
	copy(out, n.events)
	return out
}

func (n *recordingNotifier) last() (commands.TransitionEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return commands.TransitionEvent{}, false
	}
	return n.events[len(n.events)-1], true
}
