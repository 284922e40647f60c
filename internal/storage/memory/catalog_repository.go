package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

// catalogRepositoryInMemory — in-memory справочник товаров.
// Сервис корзины справочник не редактирует; Put нужен фикстурам в тестах
// и локальной разработке.
type catalogRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.CatalogItem
}

// NewCatalogRepository возвращает in-memory справочник, заполненный items.
func NewCatalogRepository(items ...domain.CatalogItem) *catalogRepositoryInMemory {
	repo := &catalogRepositoryInMemory{items: make(map[string]domain.CatalogItem, len(items))}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

// LookupItem возвращает товар или ErrCatalogItemNotFound.
func (r *catalogRepositoryInMemory) LookupItem(itemID string) (domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return domain.CatalogItem{}, domain.ErrCatalogItemNotFound
	}
	return item, nil
}

// Put добавляет или заменяет товар в справочнике.
func (r *catalogRepositoryInMemory) Put(item domain.CatalogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

var _ domain.CatalogRepository = (*catalogRepositoryInMemory)(nil)
