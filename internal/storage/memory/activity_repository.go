package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

// activityRepositoryInMemory хранит историю корзин в памяти (для разработки/тестов).
type activityRepositoryInMemory struct {
	mu     sync.RWMutex
	events map[string][]domain.CartActivityEvent
}

// NewActivityRepository создаёт in-memory реализацию ActivityRepository.
func NewActivityRepository() domain.ActivityRepository {
	return &activityRepositoryInMemory{events: make(map[string][]domain.CartActivityEvent)}
}

// Append добавляет событие в историю корзины.
func (r *activityRepositoryInMemory) Append(event domain.CartActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}
	r.events[event.CartID] = append(r.events[event.CartID], event)

	sort.Slice(r.events[event.CartID], func(i, j int) bool {
		return r.events[event.CartID][i].Occurred.Before(r.events[event.CartID][j].Occurred)
	})

	return nil
}

// List возвращает события корзины в хронологическом порядке.
func (r *activityRepositoryInMemory) List(cartID string) ([]domain.CartActivityEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[cartID]
	result := make([]domain.CartActivityEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.ActivityRepository = (*activityRepositoryInMemory)(nil)
