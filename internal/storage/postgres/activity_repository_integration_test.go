package postgres

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

func TestActivityRepository_PostgresAppendAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewActivityRepository(store)

	cartID := gofakeit.UUID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	events := []domain.CartActivityEvent{
		{CartID: cartID, ItemID: "A1", Action: domain.CartActionAdded, Quantity: 4, Occurred: now.Add(-2 * time.Minute)},
		{CartID: cartID, ItemID: "A1", Action: domain.CartActionUpdated, Quantity: 10, Occurred: now.Add(-time.Minute)},
		{CartID: cartID, ItemID: "A1", Action: domain.CartActionRemoved, Quantity: 0, Occurred: now},
		{CartID: gofakeit.UUID(), ItemID: "B2", Action: domain.CartActionAdded, Quantity: 1, Occurred: now},
	}
	for _, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	listed, err := repo.List(cartID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 events, got %d", len(listed))
	}
	wantActions := []domain.CartAction{domain.CartActionAdded, domain.CartActionUpdated, domain.CartActionRemoved}
	for i, action := range wantActions {
		if listed[i].Action != action {
			t.Fatalf("expected action %s at position %d, got %s", action, i, listed[i].Action)
		}
	}
}

func TestActivityRepository_PostgresAppendFillsOccurred(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewActivityRepository(store)

	cartID := gofakeit.UUID()
	if err := repo.Append(domain.CartActivityEvent{CartID: cartID, ItemID: "A1", Action: domain.CartActionAdded, Quantity: 4}); err != nil {
		t.Fatalf("append: %v", err)
	}

	listed, err := repo.List(cartID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Occurred.IsZero() {
		t.Fatalf("expected occurred timestamp to be set: %+v", listed)
	}
}
