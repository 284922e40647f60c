package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

type lineKey struct {
	cartID string
	itemID string
}

// cartLineRepositoryInMemory — простая in-memory реализация CartLineRepository.
// Мьютекс сериализует проверку и вставку, поэтому гонка двух Insert по одной
// паре даёт ровно один успех, как и уникальный ключ в PostgreSQL.
type cartLineRepositoryInMemory struct {
	mu      sync.RWMutex
	lines   map[lineKey]domain.CartLine
	catalog domain.CatalogRepository
}

// NewCartLineRepository возвращает in-memory репозиторий для локальной
// разработки и тестов. Справочник нужен для join в ListViews/GetView.
func NewCartLineRepository(catalog domain.CatalogRepository) domain.CartLineRepository {
	return &cartLineRepositoryInMemory{
		lines:   make(map[lineKey]domain.CartLine),
		catalog: catalog,
	}
}

// Insert сохраняет новую позицию, если пара (cart_id, item_id) ещё не занята.
func (r *cartLineRepositoryInMemory) Insert(line domain.CartLine) (domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lineKey{cartID: line.CartID, itemID: line.ItemID}
	if _, exists := r.lines[key]; exists {
		return domain.CartLine{}, domain.ErrCartLineExists
	}

	now := time.Now().UTC()
	if line.CreatedAt.IsZero() {
		line.CreatedAt = now
	}
	line.UpdatedAt = line.CreatedAt

	r.lines[key] = line
	return line, nil
}

// Get возвращает позицию или ErrCartLineNotFound.
func (r *cartLineRepositoryInMemory) Get(cartID, itemID string) (domain.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	line, ok := r.lines[lineKey{cartID: cartID, itemID: itemID}]
	if !ok {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return line, nil
}

// UpdateQuantity перезаписывает количество существующей позиции.
func (r *cartLineRepositoryInMemory) UpdateQuantity(cartID, itemID string, quantity int32) (domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lineKey{cartID: cartID, itemID: itemID}
	line, ok := r.lines[key]
	if !ok {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}

	line.Quantity = quantity
	line.UpdatedAt = time.Now().UTC()
	r.lines[key] = line
	return line, nil
}

// Delete удаляет позицию; повторное удаление возвращает ErrCartLineNotFound.
func (r *cartLineRepositoryInMemory) Delete(cartID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lineKey{cartID: cartID, itemID: itemID}
	if _, ok := r.lines[key]; !ok {
		return domain.ErrCartLineNotFound
	}
	delete(r.lines, key)
	return nil
}

// ListViews возвращает позиции корзины, соединённые со справочником,
// в порядке created_at ASC, item_id ASC. Позиции без товара в справочнике
// пропускаются — как inner join в SQL-реализации.
func (r *cartLineRepositoryInMemory) ListViews(cartID string) ([]domain.CartLineView, error) {
	r.mu.RLock()
	lines := make([]domain.CartLine, 0)
	for key, line := range r.lines {
		if key.cartID == cartID {
			lines = append(lines, line)
		}
	}
	r.mu.RUnlock()

	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ItemID < lines[j].ItemID
	})

	views := make([]domain.CartLineView, 0, len(lines))
	for _, line := range lines {
		item, err := r.catalog.LookupItem(line.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrCatalogItemNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, domain.NewCartLineView(line, item))
	}

	return views, nil
}

// GetView возвращает одну позицию, соединённую со справочником.
func (r *cartLineRepositoryInMemory) GetView(cartID, itemID string) (domain.CartLineView, error) {
	line, err := r.Get(cartID, itemID)
	if err != nil {
		return domain.CartLineView{}, err
	}

	item, err := r.catalog.LookupItem(itemID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogItemNotFound) {
			return domain.CartLineView{}, domain.ErrCartLineNotFound
		}
		return domain.CartLineView{}, err
	}

	return domain.NewCartLineView(line, item), nil
}

var _ domain.CartLineRepository = (*cartLineRepositoryInMemory)(nil)
