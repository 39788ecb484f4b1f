package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stayhub/internal/domain/accommodation"
	"stayhub/internal/pkg/metrics"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type snapshot struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	Capacity         int       `json:"capacity"`
	Status           string    `json:"status"`
}

// CachedCatalog is a cache-aside decorator over the accommodation catalog.
// Cache failures degrade to the underlying store, never to the caller.
type CachedCatalog struct {
	next   commands.AccommodationCatalog
	client *redis.Client
	ttl    time.Duration
}

func NewCachedCatalog(next commands.AccommodationCatalog, client *redis.Client, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, client: client, ttl: ttl}
}

func (c *CachedCatalog) GetAccommodation(ctx context.Context, id uuid.UUID) (*accommodation.Accommodation, error) {
	key := cacheKey(id)

	if v, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var snap snapshot
		if err := json.Unmarshal(v, &snap); err == nil {
			if acc, err := fromSnapshot(snap); err == nil {
				metrics.ObserveCache("catalog", "hit")
				return acc, nil
			}
		}
	} else if err != redis.Nil {
		slog.Warn("catalog cache read failed", "key", key, "error", err)
	}
	metrics.ObserveCache("catalog", "miss")

	acc, err := c.next.GetAccommodation(ctx, id)
	if err != nil {
		return nil, err
	}

	b, _ := json.Marshal(toSnapshot(acc))
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache write failed", "key", key, "error", err)
	} else {
		metrics.ObserveCache("catalog", "set")
	}
	return acc, nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:accommodation:%s", id)
}

func toSnapshot(acc *accommodation.Accommodation) snapshot {
	return snapshot{
		ID:               acc.ID(),
		Name:             acc.Name(),
		NightlyRateCents: acc.NightlyRateCents(),
		Capacity:         acc.Capacity(),
		Status:           acc.Status().String(),
	}
}

func fromSnapshot(snap snapshot) (*accommodation.Accommodation, error) {
	return accommodation.NewAccommodation(
		snap.ID, snap.Name, snap.NightlyRateCents, snap.Capacity,
		accommodation.Status(snap.Status),
	)
}

var _ commands.AccommodationCatalog = (*CachedCatalog)(nil)
