package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События позиций корзины
	EventTypeCartItemAdded   EventType = "cart.item_added"
	EventTypeCartItemUpdated EventType = "cart.item_updated"
	EventTypeCartItemRemoved EventType = "cart.item_removed"
)

// Topics для Kafka
const (
	TopicCartLineEvents  = "cart.line.events"
	TopicDeadLetterQueue = "cart.line.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CartLineEvent представляет событие изменения позиции корзины
type CartLineEvent struct {
	EventType EventType              `json:"event_type"`
	CartID    string                 `json:"cart_id"`
	ItemID    string                 `json:"item_id"`
	Quantity  int32                  `json:"qty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewCartLineEvent создает новое событие позиции корзины
func NewCartLineEvent(eventType EventType, cartID, itemID string, qty int32, metadata map[string]interface{}) *CartLineEvent {
	return &CartLineEvent{
		EventType: eventType,
		CartID:    cartID,
		ItemID:    itemID,
		Quantity:  qty,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
