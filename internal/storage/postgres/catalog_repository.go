package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создаёт PostgreSQL-реализацию CatalogRepository.
// Справочник товаров доступен только на чтение.
func NewCatalogRepository(store *Store) domain.CatalogRepository {
	return &catalogRepository{db: store.DB()}
}

func (r *catalogRepository) LookupItem(itemID string) (domain.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var item domain.CatalogItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, item_name, unit, price
		FROM item_master
		WHERE id = $1
	`, itemID).Scan(&item.ID, &item.Name, &item.Unit, &item.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CatalogItem{}, domain.ErrCatalogItemNotFound
		}
		return domain.CatalogItem{}, fmt.Errorf("select catalog item: %w", err)
	}

	return item, nil
}

var _ domain.CatalogRepository = (*catalogRepository)(nil)
