package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitRuntimeDependencies_Memory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, log.WithField("test", "memory-storage"))
	if err != nil {
		t.Fatalf("initRuntimeDependencies(memory) failed: %v", err)
	}
	if deps.lines == nil {
		t.Fatal("lines repository should not be nil for memory storage")
	}
	if deps.catalog == nil {
		t.Fatal("catalog repository should not be nil for memory storage")
	}
	if deps.activity == nil {
		t.Fatal("activity repository should not be nil for memory storage")
	}
	if deps.outbox == nil {
		t.Fatal("outbox repository should not be nil for memory storage")
	}

	// Демо-справочник должен отвечать на lookup.
	if _, err := deps.catalog.LookupItem("A1"); err != nil {
		t.Fatalf("expected demo catalog item A1: %v", err)
	}
}

func TestInitRuntimeDependencies_EmptyDriverDefaultsToMemory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{}, log.WithField("test", "default-storage"))
	if err != nil {
		t.Fatalf("initRuntimeDependencies(default) failed: %v", err)
	}
	if deps.lines == nil {
		t.Fatal("lines repository should not be nil")
	}
}

func TestInitRuntimeDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	if err == nil {
		t.Fatal("expected error when postgres driver is selected without DSN")
	}
}

func TestInitRuntimeDependencies_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	if err == nil {
		t.Fatal("expected error for unsupported storage driver")
	}
}
