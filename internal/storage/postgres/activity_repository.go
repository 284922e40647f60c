package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository создаёт PostgreSQL-реализацию ActivityRepository.
func NewActivityRepository(store *Store) domain.ActivityRepository {
	return &activityRepository{db: store.DB()}
}

func (r *activityRepository) Append(event domain.CartActivityEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_activity_events (cart_id, item_id, action, qty, occurred)
		VALUES ($1, $2, $3, $4, $5)
	`,
		event.CartID, event.ItemID, string(event.Action), event.Quantity, event.Occurred,
	)
	if err != nil {
		return fmt.Errorf("append cart activity event: %w", err)
	}

	return nil
}

func (r *activityRepository) List(cartID string) ([]domain.CartActivityEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT cart_id, item_id, action, qty, occurred
		FROM cart_activity_events
		WHERE cart_id = $1
		ORDER BY occurred ASC, id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart activity: %w", err)
	}
	defer rows.Close()

	events := make([]domain.CartActivityEvent, 0)
	for rows.Next() {
		var event domain.CartActivityEvent
		var action string
		if err := rows.Scan(&event.CartID, &event.ItemID, &action, &event.Quantity, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan cart activity event: %w", err)
		}
		event.Action = domain.CartAction(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart activity events: %w", err)
	}

	return events, nil
}

var _ domain.ActivityRepository = (*activityRepository)(nil)
