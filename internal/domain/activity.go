package domain

import "time"

// CartAction описывает тип изменения позиции корзины.
type CartAction string

const (
	// CartActionAdded — товар добавлен в корзину.
	CartActionAdded CartAction = "added"
	// CartActionUpdated — количество товара изменено.
	CartActionUpdated CartAction = "updated"
	// CartActionRemoved — товар удалён из корзины.
	CartActionRemoved CartAction = "removed"
)

// CartActivityEvent описывает событие в истории изменений корзины.
type CartActivityEvent struct {
	CartID   string
	ItemID   string
	Action   CartAction
	Quantity int32
	Occurred time.Time
}
