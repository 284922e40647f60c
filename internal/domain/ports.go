package domain

import "time"

// CartLineRepository описывает требования к хранилищу позиций корзины.
//
// Уникальность пары (cart_id, item_id) обеспечивает само хранилище:
// гонка двух Insert по одной паре завершается одной строкой и одной ошибкой
// ErrCartLineExists, а не дублем.
type CartLineRepository interface {
	// Insert сохраняет новую позицию и возвращает её с заполненными
	// временными метками. Возвращает ErrCartLineExists, если пара уже есть.
	Insert(line CartLine) (CartLine, error)
	// Get возвращает позицию по паре или ErrCartLineNotFound, если её нет.
	Get(cartID, itemID string) (CartLine, error)
	// UpdateQuantity перезаписывает количество существующей позиции.
	// Возвращает ErrCartLineNotFound, если строка по паре не найдена.
	UpdateQuantity(cartID, itemID string, quantity int32) (CartLine, error)
	// Delete удаляет позицию. Возвращает ErrCartLineNotFound, если ни одна
	// строка не была удалена: повторное удаление не считается успехом.
	Delete(cartID, itemID string) error
	// ListViews возвращает позиции корзины, соединённые со справочником
	// товаров. Порядок стабилен в рамках вызова: created_at ASC, item_id ASC.
	// Позиции без товара в справочнике в выборку не попадают.
	ListViews(cartID string) ([]CartLineView, error)
	// GetView возвращает одну позицию, соединённую со справочником,
	// или ErrCartLineNotFound.
	GetView(cartID, itemID string) (CartLineView, error)
}

// CatalogRepository описывает чтение справочника товаров.
// Справочник для сервиса корзины read-only.
type CatalogRepository interface {
	// LookupItem возвращает товар или ErrCatalogItemNotFound.
	LookupItem(itemID string) (CatalogItem, error)
}

// ActivityRepository хранит историю изменений корзины.
type ActivityRepository interface {
	Append(event CartActivityEvent) error
	// List возвращает события корзины в хронологическом порядке.
	List(cartID string) ([]CartActivityEvent, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
