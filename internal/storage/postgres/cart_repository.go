package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type cartLineRepository struct {
	db *sql.DB
}

// NewCartLineRepository создаёт PostgreSQL-реализацию CartLineRepository.
func NewCartLineRepository(store *Store) domain.CartLineRepository {
	return &cartLineRepository{db: store.DB()}
}

// Insert добавляет позицию в корзину. Уникальность пары (cart_id, item_id)
// гарантирует первичный ключ: при гонке двух вставок одна вернёт ErrCartLineExists.
func (r *cartLineRepository) Insert(line domain.CartLine) (domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shopping_cart_items (cart_id, item_id, qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING cart_id, item_id, qty, created_at, updated_at
	`,
		line.CartID, line.ItemID, line.Quantity, now,
	).Scan(&line.CartID, &line.ItemID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.CartLine{}, domain.ErrCartLineExists
		}
		return domain.CartLine{}, fmt.Errorf("insert cart line: %w", err)
	}

	return line, nil
}

func (r *cartLineRepository) Get(cartID, itemID string) (domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var line domain.CartLine
	err := r.db.QueryRowContext(ctx, `
		SELECT cart_id, item_id, qty, created_at, updated_at
		FROM shopping_cart_items
		WHERE cart_id = $1 AND item_id = $2
	`, cartID, itemID).Scan(&line.CartID, &line.ItemID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, domain.ErrCartLineNotFound
		}
		return domain.CartLine{}, fmt.Errorf("select cart line: %w", err)
	}

	return line, nil
}

func (r *cartLineRepository) UpdateQuantity(cartID, itemID string, quantity int32) (domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var line domain.CartLine
	err := r.db.QueryRowContext(ctx, `
		UPDATE shopping_cart_items
		SET qty = $3,
		    updated_at = $4
		WHERE cart_id = $1 AND item_id = $2
		RETURNING cart_id, item_id, qty, created_at, updated_at
	`,
		cartID, itemID, quantity, time.Now().UTC(),
	).Scan(&line.CartID, &line.ItemID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, domain.ErrCartLineNotFound
		}
		return domain.CartLine{}, fmt.Errorf("update cart line qty: %w", err)
	}

	return line, nil
}

func (r *cartLineRepository) Delete(cartID, itemID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM shopping_cart_items
		WHERE cart_id = $1 AND item_id = $2
	`, cartID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCartLineNotFound
	}

	return nil
}

// ListViews возвращает позиции корзины, обогащённые данными справочника.
// Стоимость считается в SQL как qty * price и никогда не хранится.
func (r *cartLineRepository) ListViews(cartID string) ([]domain.CartLineView, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.item_id, i.item_name, i.unit, i.price, c.qty, c.qty * i.price AS value
		FROM shopping_cart_items c
		JOIN item_master i ON i.id = c.item_id
		WHERE c.cart_id = $1
		ORDER BY c.created_at ASC, c.item_id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	views := make([]domain.CartLineView, 0)
	for rows.Next() {
		var view domain.CartLineView
		if err := rows.Scan(
			&view.ItemID, &view.Name, &view.Unit, &view.UnitPrice, &view.Quantity, &view.Value,
		); err != nil {
			return nil, fmt.Errorf("scan cart line view: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart line views: %w", err)
	}

	return views, nil
}

func (r *cartLineRepository) GetView(cartID, itemID string) (domain.CartLineView, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var view domain.CartLineView
	err := r.db.QueryRowContext(ctx, `
		SELECT c.item_id, i.item_name, i.unit, i.price, c.qty, c.qty * i.price AS value
		FROM shopping_cart_items c
		JOIN item_master i ON i.id = c.item_id
		WHERE c.cart_id = $1 AND c.item_id = $2
	`, cartID, itemID).Scan(
		&view.ItemID, &view.Name, &view.Unit, &view.UnitPrice, &view.Quantity, &view.Value,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLineView{}, domain.ErrCartLineNotFound
		}
		return domain.CartLineView{}, fmt.Errorf("select cart line view: %w", err)
	}

	return view, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.CartLineRepository = (*cartLineRepository)(nil)
