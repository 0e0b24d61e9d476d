package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"roombook/internal/domain/resource"
	"roombook/internal/infra/db"
	"roombook/internal/infra/memstore"
	"roombook/internal/infra/pgstore"
	"roombook/internal/pkg/config"
	"roombook/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStores,
	),
)

// NewStores wires the booking and resource stores for the configured driver.
// The postgres driver owns its connection pool and releases it on shutdown;
// the memory driver seeds a small fixed catalog so the service is usable
// without a database.
func NewStores(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (usecase.BookingStore, usecase.ResourceStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, cleanup, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				if cleanup != nil {
					cleanup()
				}
				return nil
			},
		})
		return pgstore.NewBookingStore(pool), pgstore.NewResourceStore(pool), nil

	case "memory":
		logger.Warn("using in-memory store, data will not survive restarts")
		catalog, err := seedCatalog()
		if err != nil {
			return nil, nil, err
		}
		return memstore.New(), catalog, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Fixed IDs keep client bookmarks valid across restarts of the dev driver.
func seedCatalog() (*memstore.Catalog, error) {
	seeds := []struct {
		id       string
		name     string
		capacity int
		tags     []string
	}{
		{"6b9f6b64-0001-4f7a-9c60-000000000001", "Meeting Room A", 8, []string{"projector", "whiteboard"}},
		{"6b9f6b64-0001-4f7a-9c60-000000000002", "Meeting Room B", 4, []string{"whiteboard"}},
		{"6b9f6b64-0001-4f7a-9c60-000000000003", "Conference Hall", 30, []string{"projector", "video"}},
		{"6b9f6b64-0001-4f7a-9c60-000000000004", "Focus Booth", 1, nil},
	}

	resources := make([]*resource.Resource, 0, len(seeds))
	for _, s := range seeds {
		r, err := resource.NewResource(uuid.MustParse(s.id), s.name, s.capacity, s.tags)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return memstore.NewCatalog(resources...), nil
}
