package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора корзины.
	ErrCartIDRequired = errors.New("cart_id is required")
	// Ошибка отсутствующего идентификатора товара.
	ErrItemIDRequired = errors.New("item_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("qty must be greater than zero")
	// ErrCartLineNotFound возвращается, если позиции (корзина, товар) нет в хранилище.
	ErrCartLineNotFound = errors.New("cart item not found")
	// ErrCartLineExists сигнализирует о попытке повторно добавить товар в корзину.
	ErrCartLineExists = errors.New("item already exists in cart, use update to change quantity")
	// ErrCatalogItemNotFound возвращается, если товара нет в справочнике.
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	// ErrStoreUnavailable — временная ошибка хранилища; вызывающая сторона может повторить запрос.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsInvalidArgument проверяет, относится ли ошибка к классу ошибок валидации.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrCartIDRequired) ||
		errors.Is(err, ErrItemIDRequired) ||
		errors.Is(err, ErrQuantityInvalid)
}

// IsConflict проверяет, является ли ошибка конфликтом уникальности позиции.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCartLineExists)
}
