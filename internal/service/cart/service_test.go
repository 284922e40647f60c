package cart_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cart/internal/domain"
	"github.com/vladislavdragonenkov/cart/internal/service/cart"
	"github.com/vladislavdragonenkov/cart/internal/storage/memory"
)

type fixture struct {
	svc      *cart.Service
	lines    domain.CartLineRepository
	activity domain.ActivityRepository
	outbox   domain.OutboxRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	catalog := memory.NewCatalogRepository(
		domain.CatalogItem{ID: "A1", Name: "Rice", Unit: "kg", Price: decimal.RequireFromString("2.50")},
		domain.CatalogItem{ID: "B2", Name: "Milk", Unit: "l", Price: decimal.RequireFromString("1.20")},
	)
	lines := memory.NewCartLineRepository(catalog)
	activity := memory.NewActivityRepository()
	outbox := memory.NewOutboxRepository()

	return fixture{
		svc:      cart.NewService(lines, activity, outbox, nil, nil),
		lines:    lines,
		activity: activity,
		outbox:   outbox,
	}
}

func TestService_AddItem(t *testing.T) {
	f := newFixture(t)

	line, err := f.svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)
	assert.Equal(t, int32(4), line.Quantity)
	assert.False(t, line.CreatedAt.IsZero())

	// Успешное добавление оставляет след в истории и в outbox.
	events, err := f.activity.List("cart-7")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.CartActionAdded, events[0].Action)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "cart.item_added", pending[0].EventType)
	assert.Equal(t, "cart-7", pending[0].AggregateID)
}

func TestService_AddItemValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		cartID  string
		itemID  string
		qty     int32
		wantErr error
	}{
		{"empty cart id", "", "A1", 1, domain.ErrCartIDRequired},
		{"empty item id", "cart-7", "", 1, domain.ErrItemIDRequired},
		{"zero qty", "cart-7", "A1", 0, domain.ErrQuantityInvalid},
		{"negative qty", "cart-7", "A1", -2, domain.ErrQuantityInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddItem(tt.cartID, tt.itemID, tt.qty)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsInvalidArgument(err))
		})
	}

	// Ошибки валидации не оставляют следов в хранилище.
	views, err := f.svc.ListItems("cart-7")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestService_AddItemDuplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)

	_, err = f.svc.AddItem("cart-7", "A1", 2)
	require.ErrorIs(t, err, domain.ErrCartLineExists)
	assert.True(t, domain.IsConflict(err))

	// Конфликт не меняет существующую позицию.
	view, err := f.svc.GetItem("cart-7", "A1")
	require.NoError(t, err)
	assert.Equal(t, int32(4), view.Quantity)
}

func TestService_AddItemConcurrentSamePair(t *testing.T) {
	f := newFixture(t)

	const workers = 24
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = f.svc.AddItem("cart-race", "A1", 1)
		}(i)
	}
	wg.Wait()

	success := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, domain.ErrCartLineExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, workers-1, conflicts)

	views, err := f.svc.ListItems("cart-race")
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestService_AddItemUnknownCatalogItem(t *testing.T) {
	f := newFixture(t)

	// Принадлежность товара справочнику при записи не проверяется,
	// но такая позиция не видна в выборках.
	_, err := f.svc.AddItem("cart-7", "ghost", 1)
	require.NoError(t, err)

	views, err := f.svc.ListItems("cart-7")
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.svc.GetItem("cart-7", "ghost")
	require.ErrorIs(t, err, domain.ErrCartLineNotFound)
}

func TestService_UpdateItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateItem("cart-7", "A1", 10)
	require.ErrorIs(t, err, domain.ErrCartLineNotFound)

	_, err = f.svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)

	updated, err := f.svc.UpdateItem("cart-7", "A1", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(10), updated.Quantity)

	_, err = f.svc.UpdateItem("cart-7", "A1", 0)
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)

	events, err := f.svc.ListActivity("cart-7")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.CartActionAdded, events[0].Action)
	assert.Equal(t, domain.CartActionUpdated, events[1].Action)
}

func TestService_DeleteItem(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteItem("cart-7", "A1")
	require.ErrorIs(t, err, domain.ErrCartLineNotFound)

	_, err = f.svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteItem("cart-7", "A1"))

	// Повторное удаление сообщает NotFound, а не молча успешно.
	err = f.svc.DeleteItem("cart-7", "A1")
	require.ErrorIs(t, err, domain.ErrCartLineNotFound)

	events, err := f.svc.ListActivity("cart-7")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.CartActionRemoved, events[1].Action)
}

func TestService_ListItemsValues(t *testing.T) {
	f := newFixture(t)

	views, err := f.svc.ListItems("cart-empty")
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)

	view, err := f.svc.GetItem("cart-7", "A1")
	require.NoError(t, err)
	assert.True(t, view.Value.Equal(decimal.RequireFromString("10.00")), "expected 10.00, got %s", view.Value)

	_, err = f.svc.UpdateItem("cart-7", "A1", 10)
	require.NoError(t, err)

	// Стоимость пересчитывается при чтении, а не хранится.
	view, err = f.svc.GetItem("cart-7", "A1")
	require.NoError(t, err)
	assert.True(t, view.Value.Equal(decimal.RequireFromString("25.00")), "expected 25.00, got %s", view.Value)
}

func TestService_ValidationOnReads(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListItems("")
	require.ErrorIs(t, err, domain.ErrCartIDRequired)

	_, err = f.svc.GetItem("cart-7", "")
	require.ErrorIs(t, err, domain.ErrItemIDRequired)

	_, err = f.svc.ListActivity("  ")
	require.ErrorIs(t, err, domain.ErrCartIDRequired)
}

type brokenLineRepository struct{}

func (brokenLineRepository) Insert(domain.CartLine) (domain.CartLine, error) {
	return domain.CartLine{}, errors.New("connection refused")
}

func (brokenLineRepository) Get(string, string) (domain.CartLine, error) {
	return domain.CartLine{}, errors.New("connection refused")
}

func (brokenLineRepository) UpdateQuantity(string, string, int32) (domain.CartLine, error) {
	return domain.CartLine{}, errors.New("connection refused")
}

func (brokenLineRepository) Delete(string, string) error {
	return errors.New("connection refused")
}

func (brokenLineRepository) ListViews(string) ([]domain.CartLineView, error) {
	return nil, errors.New("connection refused")
}

func (brokenLineRepository) GetView(string, string) (domain.CartLineView, error) {
	return domain.CartLineView{}, errors.New("connection refused")
}

func TestService_StoreUnavailable(t *testing.T) {
	svc := cart.NewService(brokenLineRepository{}, nil, nil, nil, nil)

	_, err := svc.ListItems("cart-7")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.GetItem("cart-7", "A1")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.AddItem("cart-7", "A1", 1)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.UpdateItem("cart-7", "A1", 1)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = svc.DeleteItem("cart-7", "A1")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestService_SideEffectFailuresDoNotFailOperation(t *testing.T) {
	catalog := memory.NewCatalogRepository(
		domain.CatalogItem{ID: "A1", Name: "Rice", Unit: "kg", Price: decimal.RequireFromString("2.50")},
	)
	lines := memory.NewCartLineRepository(catalog)

	// Без истории и outbox операции всё равно выполняются.
	svc := cart.NewService(lines, nil, nil, nil, nil)

	_, err := svc.AddItem("cart-7", "A1", 4)
	require.NoError(t, err)

	events, err := svc.ListActivity("cart-7")
	require.NoError(t, err)
	assert.Empty(t, events)
}
