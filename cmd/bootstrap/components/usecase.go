package components

import (
	"stayhub/internal/domain/reservation"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewNightlyPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	reservation.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewReservationCommands,
		NewCompletionCommands,
		commands.NewReviewCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
	),
)

func NewReservationCommands(
	reservations commands.ReservationRepository,
	catalog commands.AccommodationCatalog,
	notifier commands.TransitionNotifier,
	factory *reservation.Factory,
	clk clock.Clock,
	cfg config.Config,
) commands.ReservationCommands {
	return commands.NewReservationCommands(reservations, catalog, notifier, factory, clk, cfg.Booking.MaxCreateRetries)
}

func NewCompletionCommands(
	reservations commands.ReservationRepository,
	notifier commands.TransitionNotifier,
	clk clock.Clock,
	cfg config.Config,
) commands.CompletionCommands {
	return commands.NewCompletionCommands(
		reservations,
		notifier,
		clk,
		cfg.Sweeper.BatchSize,
		cfg.Sweeper.Workers,
		cfg.Sweeper.PendingTTL,
	)
}
