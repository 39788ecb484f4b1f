//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayhub/internal/domain/reservation"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/usecase/commands"
	"stayhub/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	commands commands.ReservationCommands
	repo     *fakeReservationRepo
	catalog  *fakeCatalog
	notifier *recordingNotifier
	clock    *clock.MockClock
}

func newReservationFixture(t *testing.T, catalog *fakeCatalog) *reservationFixture {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	repo := newFakeReservationRepo()
	notifier := &recordingNotifier{}
	factory := reservation.NewFactory(clk, reservation.NewNightlyPriceCalculator())

	return &reservationFixture{
		commands: commands.NewReservationCommands(repo, catalog, notifier, factory, clk, 3),
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		clock:    clk,
	}
}

func createParams(accommodationID uuid.UUID) commands.CreateReservationParams {
	return commands.CreateReservationParams{
		AccommodationID: accommodationID,
		GuestID:         uuid.New(),
		Checkin:         time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Checkout:        time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
		GuestCount:      2,
	}
}

func TestReservationCommandsCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPending, res.Status())
		assert.Equal(t, int64(400_00), res.Price().Cents())
		assert.NotNil(t, f.repo.get(res.ID()))

		event, ok := f.notifier.last()
		require.True(t, ok)
		assert.Equal(t, res.ID(), event.ReservationID)
		assert.Equal(t, "pending", event.Status)
		assert.Equal(t, 400.00, event.TotalPrice)
	})

	t.Run("unknown accommodation", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog())

		_, err := f.commands.Create(ctx, createParams(uuid.New()))
		require.ErrorIs(t, err, commands.ErrAccommodationNotFound)
	})

	t.Run("blocked accommodation", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().
			With(func(b *builder.AccommodationBuilder) { b.Status = "blocked" }).
			MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		_, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.ErrorIs(t, err, commands.ErrAccommodationUnavailable)
	})

	t.Run("invalid stay period", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		params := createParams(acc.ID())
		params.Checkout = params.Checkin
		_, err := f.commands.Create(ctx, params)
		require.ErrorIs(t, err, commands.ErrInvalidStayPeriod)
	})

	t.Run("checkin in the past", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		params := createParams(acc.ID())
		params.Checkin = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		params.Checkout = time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
		_, err := f.commands.Create(ctx, params)
		require.ErrorIs(t, err, commands.ErrInvalidStayPeriod)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().
			With(func(b *builder.AccommodationBuilder) { b.Capacity = 2 }).
			MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		params := createParams(acc.ID())
		params.GuestCount = 3
		_, err := f.commands.Create(ctx, params)
		require.ErrorIs(t, err, commands.ErrCapacityExceeded)
	})

	t.Run("overlapping holding is rejected", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		first, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		params := createParams(acc.ID())
		params.Checkin = time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)
		params.Checkout = time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)
		_, err = f.commands.Create(ctx, params)
		require.ErrorIs(t, err, commands.ErrUnavailable)

		// The winner is untouched.
		assert.Equal(t, reservation.StatusPending, f.repo.get(first.ID()).Status())
	})

	t.Run("back to back stays are both accepted", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		_, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		params := createParams(acc.ID())
		params.Checkin = time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
		params.Checkout = time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)
		_, err = f.commands.Create(ctx, params)
		require.NoError(t, err)
	})

	t.Run("cancelled holding frees the period", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))

		params := createParams(acc.ID())
		first, err := f.commands.Create(ctx, params)
		require.NoError(t, err)
		_, err = f.commands.Cancel(ctx, first.ID(), first.GuestID(), "plans changed")
		require.NoError(t, err)

		_, err = f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)
	})

	t.Run("transient serialization failures are retried", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))
		f.repo.serializationFailures = 2

		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)
		assert.NotNil(t, f.repo.get(res.ID()))
	})

	t.Run("retry exhaustion surfaces as unavailable", func(t *testing.T) {
		acc := builder.NewAccommodationBuilder().MustBuild()
		f := newReservationFixture(t, newFakeCatalog(acc))
		f.repo.serializationFailures = 10

		_, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.ErrorIs(t, err, commands.ErrUnavailable)
	})
}

func TestReservationCommandsCreateRace(t *testing.T) {
	ctx := context.Background()
	acc := builder.NewAccommodationBuilder().MustBuild()
	f := newReservationFixture(t, newFakeCatalog(acc))

	const racers = 16
	var wg sync.WaitGroup
	errCh := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.commands.Create(ctx, createParams(acc.ID()))
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var winners, losers int
	for err := range errCh {
		switch {
		case err == nil:
			winners++
		default:
			require.ErrorIs(t, err, commands.ErrUnavailable)
			losers++
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, racers-1, losers)
}

func TestReservationCommandsConfirm(t *testing.T) {
	ctx := context.Background()
	acc := builder.NewAccommodationBuilder().MustBuild()

	t.Run("success", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		confirmed, err := f.commands.Confirm(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status())
		assert.Equal(t, reservation.StatusConfirmed, f.repo.get(res.ID()).Status())

		event, ok := f.notifier.last()
		require.True(t, ok)
		assert.Equal(t, "confirmed", event.Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		_, err := f.commands.Confirm(ctx, uuid.New())
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("availability lost since creation", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		// A competing holding sneaks in behind the pending reservation.
		competitor := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) {
				b.AccommodationID = acc.ID()
				b.Status = reservation.StatusConfirmed
			}).
			WithStay(res.Period().Checkin(), res.Period().Checkout()).
			MustBuild()
		f.repo.add(competitor)

		_, err = f.commands.Confirm(ctx, res.ID())
		require.ErrorIs(t, err, commands.ErrStaleAvailability)
		assert.Equal(t, reservation.StatusPending, f.repo.get(res.ID()).Status())
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)
		_, err = f.commands.Cancel(ctx, res.ID(), res.GuestID(), "plans changed")
		require.NoError(t, err)

		_, err = f.commands.Confirm(ctx, res.ID())
		require.ErrorIs(t, err, commands.ErrIllegalTransition)
	})
}

func TestReservationCommandsCancel(t *testing.T) {
	ctx := context.Background()
	acc := builder.NewAccommodationBuilder().MustBuild()

	t.Run("owner cancels before checkin", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		cancelled, err := f.commands.Cancel(ctx, res.ID(), res.GuestID(), "plans changed")
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusCancelled, cancelled.Status())
		require.NotNil(t, cancelled.CancelReason())
		assert.Equal(t, "plans changed", cancelled.CancelReason().String())

		event, ok := f.notifier.last()
		require.True(t, ok)
		assert.Equal(t, "cancelled", event.Status)
		assert.Equal(t, "plans changed", event.Reason)
	})

	t.Run("other guest gets not found", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		_, err = f.commands.Cancel(ctx, res.ID(), uuid.New(), "plans changed")
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
		assert.Equal(t, reservation.StatusPending, f.repo.get(res.ID()).Status())
	})

	t.Run("system caller skips ownership", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		cancelled, err := f.commands.Cancel(ctx, res.ID(), uuid.Nil, "payment_failed")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, cancelled.Status())
	})

	t.Run("reason required", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		_, err = f.commands.Cancel(ctx, res.ID(), res.GuestID(), "   ")
		require.ErrorIs(t, err, commands.ErrCancelReasonRequired)
	})

	t.Run("window closed after checkin", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)

		f.clock.Set(time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC))
		_, err = f.commands.Cancel(ctx, res.ID(), res.GuestID(), "too late")
		require.ErrorIs(t, err, commands.ErrCancellationWindowClosed)
	})

	t.Run("terminal state", func(t *testing.T) {
		f := newReservationFixture(t, newFakeCatalog(acc))
		res, err := f.commands.Create(ctx, createParams(acc.ID()))
		require.NoError(t, err)
		_, err = f.commands.Cancel(ctx, res.ID(), res.GuestID(), "plans changed")
		require.NoError(t, err)

		_, err = f.commands.Cancel(ctx, res.ID(), res.GuestID(), "again")
		require.ErrorIs(t, err, commands.ErrIllegalTransition)
	})
}
