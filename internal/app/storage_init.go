package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cart/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/cart/internal/health"
	"github.com/vladislavdragonenkov/cart/internal/storage/memory"
	"github.com/vladislavdragonenkov/cart/internal/storage/postgres"
)

// runtimeDependencies — хранилища и вспомогательные ручки, собранные под
// выбранный драйвер.
type runtimeDependencies struct {
	lines    domain.CartLineRepository
	catalog  domain.CatalogRepository
	activity domain.ActivityRepository
	outbox   domain.OutboxRepository

	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies собирает репозитории для cfg.StorageDriver.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		return initMemoryDependencies(logger), nil
	case StorageDriverPostgres:
		return initPostgresDependencies(ctx, cfg, logger)
	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
	}
}

func initMemoryDependencies(logger *log.Entry) runtimeDependencies {
	// In-memory драйвер предназначен для разработки и демо, поэтому
	// справочник товаров наполняется фиксированным набором.
	catalog := memory.NewCatalogRepository(demoCatalog()...)

	logger.WithField("driver", StorageDriverMemory).Info("storage initialized with demo catalog")

	return runtimeDependencies{
		lines:    memory.NewCartLineRepository(catalog),
		catalog:  catalog,
		activity: memory.NewActivityRepository(),
		outbox:   memory.NewOutboxRepository(),
	}
}

func initPostgresDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	if cfg.PostgresDSN == "" {
		return runtimeDependencies{}, fmt.Errorf("postgres driver requires PostgresDSN")
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return runtimeDependencies{}, fmt.Errorf("open postgres store: %w", err)
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return runtimeDependencies{}, fmt.Errorf("apply postgres migrations: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	logger.WithField("driver", StorageDriverPostgres).Info("storage initialized")

	return runtimeDependencies{
		lines:          postgres.NewCartLineRepository(store),
		catalog:        postgres.NewCatalogRepository(store),
		activity:       postgres.NewActivityRepository(store),
		outbox:         postgres.NewOutboxRepository(store),
		storageChecker: healthcheck.NewPingChecker("postgres", 2*time.Second, store.Ping),
		closeFn:        store.Close,
	}, nil
}

func demoCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "A1", Name: "Rice", Unit: "kg", Price: decimal.RequireFromString("2.50")},
		{ID: "B2", Name: "Milk", Unit: "l", Price: decimal.RequireFromString("1.20")},
		{ID: "C3", Name: "Bread", Unit: "pcs", Price: decimal.RequireFromString("1.80")},
		{ID: "D4", Name: "Eggs", Unit: "dozen", Price: decimal.RequireFromString("3.10")},
	}
}
