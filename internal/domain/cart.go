package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem — строка справочника товаров (item_master).
// Справочник принадлежит внешней подсистеме, сервис корзины его только читает.
type CatalogItem struct {
	// ID — внешний идентификатор товара.
	ID string
	// Name — отображаемое название товара.
	Name string
	// Unit — единица измерения (шт, кг и т.п.).
	Unit string
	// Price — цена за единицу, неотрицательное десятичное число.
	Price decimal.Decimal
}

// CartLine — одна позиция корзины: пара (корзина, товар) с количеством.
// Пара (CartID, ItemID) уникальна: в корзине не бывает двух строк одного товара.
type CartLine struct {
	CartID   string
	ItemID   string
	Quantity int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLineView — позиция корзины, соединённая со справочником товаров.
// Value вычисляется при каждом чтении и нигде не хранится, поэтому всегда
// соответствует текущей цене справочника.
type CartLineView struct {
	ItemID    string
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
	Quantity  int32
	Value     decimal.Decimal
}

// NewCartLineView собирает представление позиции из строки корзины и товара.
func NewCartLineView(line CartLine, item CatalogItem) CartLineView {
	return CartLineView{
		ItemID:    line.ItemID,
		Name:      item.Name,
		Unit:      item.Unit,
		UnitPrice: item.Price,
		Quantity:  line.Quantity,
		Value:     item.Price.Mul(decimal.NewFromInt32(line.Quantity)),
	}
}

// ValidateInvariants проверяет базовые инварианты позиции и возвращает список замечаний.
func (l *CartLine) ValidateInvariants() []error {
	var errs []error

	if l.CartID == "" {
		errs = append(errs, ErrCartIDRequired)
	}
	if l.ItemID == "" {
		errs = append(errs, ErrItemIDRequired)
	}
	if l.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}

	return errs
}
