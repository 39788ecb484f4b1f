package components

import (
	"stayhub/internal/infra/catalog"
	"stayhub/internal/infra/readstore"
	"stayhub/internal/infra/repository"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			repository.NewReviewRepository,
			fx.As(new(commands.ReviewRepository)),
		),
		// The catalog reads synced accommodation snapshots through a
		// Redis cache-aside layer.
		NewAccommodationCatalog,
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)

func NewAccommodationCatalog(pool *pgxpool.Pool, client *redis.Client, cfg config.Config) commands.AccommodationCatalog {
	store := repository.NewAccommodationStore(pool)
	return catalog.NewCachedCatalog(store, client, cfg.Redis.CatalogTTL)
}
