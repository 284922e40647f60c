package postgres

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

func TestOutboxRepository_PostgresFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	first, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "cart",
		AggregateID:   gofakeit.UUID(),
		EventType:     "cart.item_added",
		Payload:       []byte(`{"item_id":"A1","qty":4}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated message id")
	}

	second, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "cart",
		AggregateID:   gofakeit.UUID(),
		EventType:     "cart.item_updated",
		Payload:       []byte(`{"item_id":"A1","qty":10}`),
	})
	if err != nil {
		t.Fatalf("enqueue second: %v", err)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatalf("unexpected pending order: %+v", pending)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 2 || stats.OldestPendingAt.IsZero() {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := repo.MarkSent(first.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := repo.MarkFailed(second.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err = repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending after marks: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %+v", pending)
	}
}

func TestOutboxRepository_PostgresMissingRows(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	if err := repo.MarkSent("missing-id"); err == nil {
		t.Fatal("expected error for unknown message id")
	}
	if err := repo.MarkFailed("missing-id"); err == nil {
		t.Fatal("expected error for unknown message id")
	}
}
