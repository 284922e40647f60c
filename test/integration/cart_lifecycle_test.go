package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/cart/internal/domain"
	cartsvc "github.com/vladislavdragonenkov/cart/internal/service/cart"
	"github.com/vladislavdragonenkov/cart/internal/service/outbox"
	"github.com/vladislavdragonenkov/cart/internal/storage/memory"
	httpapi "github.com/vladislavdragonenkov/cart/internal/transport/http"
)

// capturingPublisher собирает опубликованные outbox-события.
type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *capturingPublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) all() []domain.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.OutboxMessage, len(p.events))
	copy(out, p.events)
	return out
}

// CartLifecycleTestSuite проверяет полный жизненный цикл позиции корзины
// через HTTP API с in-memory хранилищем.
type CartLifecycleTestSuite struct {
	suite.Suite
	router    *gin.Engine
	outbox    domain.OutboxRepository
	activity  domain.ActivityRepository
	publisher *capturingPublisher
}

func (suite *CartLifecycleTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	catalog := memory.NewCatalogRepository(
		domain.CatalogItem{ID: "A1", Name: "Rice", Unit: "kg", Price: decimal.RequireFromString("2.50")},
		domain.CatalogItem{ID: "B2", Name: "Milk", Unit: "l", Price: decimal.RequireFromString("1.20")},
	)
	suite.outbox = memory.NewOutboxRepository()
	suite.activity = memory.NewActivityRepository()
	suite.publisher = &capturingPublisher{}

	service := cartsvc.NewService(
		memory.NewCartLineRepository(catalog),
		suite.activity,
		suite.outbox,
		logger,
		nil,
	)

	suite.router = httpapi.NewRouter(httpapi.RouterConfig{
		CartHandler: httpapi.NewCartHandler(service, logger),
	})
}

func (suite *CartLifecycleTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *CartLifecycleTestSuite) decodeViews(rec *httptest.ResponseRecorder) []map[string]any {
	var views []map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &views))
	return views
}

func (suite *CartLifecycleTestSuite) TestSuccessfulCartLifecycle() {
	// 1. Добавляем товар в корзину
	rec := suite.do(http.MethodPost, "/shoppingcart/cart-7/item", `{"item_id":"A1","qty":4}`)
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())

	// 2. Список: одна позиция со стоимостью qty*price
	rec = suite.do(http.MethodGet, "/shoppingcart/cart-7/items", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	views := suite.decodeViews(rec)
	require.Len(suite.T(), views, 1)
	require.Equal(suite.T(), "A1", views[0]["item_id"])
	require.Equal(suite.T(), "10", decimalString(suite.T(), views[0]["value"]))

	// 3. Меняем количество
	rec = suite.do(http.MethodPut, "/shoppingcart/cart-7/item/A1", `{"qty":10}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	// 4. Стоимость пересчитана при чтении
	rec = suite.do(http.MethodGet, "/shoppingcart/cart-7/item/A1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(suite.T(), "25", decimalString(suite.T(), view["value"]))

	// 5. История: добавление и изменение
	events, err := suite.activity.List("cart-7")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 2)
	require.Equal(suite.T(), domain.CartActionAdded, events[0].Action)
	require.Equal(suite.T(), domain.CartActionUpdated, events[1].Action)

	// 6. Удаляем и убеждаемся, что позиция исчезла
	rec = suite.do(http.MethodDelete, "/shoppingcart/cart-7/item/A1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/shoppingcart/cart-7/item/A1", "")
	require.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *CartLifecycleTestSuite) TestDuplicateAddConflict() {
	rec := suite.do(http.MethodPost, "/shoppingcart/cart-7/item", `{"item_id":"B2","qty":1}`)
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	// Повторное добавление отклоняется, количество не меняется.
	rec = suite.do(http.MethodPost, "/shoppingcart/cart-7/item", `{"item_id":"B2","qty":5}`)
	require.Equal(suite.T(), http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodGet, "/shoppingcart/cart-7/item/B2", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(suite.T(), float64(1), view["qty"])
}

func (suite *CartLifecycleTestSuite) TestOutboxDrainedByWorker() {
	rec := suite.do(http.MethodPost, "/shoppingcart/cart-7/item", `{"item_id":"A1","qty":2}`)
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	rec = suite.do(http.MethodPut, "/shoppingcart/cart-7/item/A1", `{"qty":3}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	pending, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), pending, 2)

	// Воркер публикует события и помечает их отправленными.
	worker := outbox.NewWorker(suite.outbox, suite.publisher)
	worker.ProcessOnce(context.Background())

	published := suite.publisher.all()
	require.Len(suite.T(), published, 2)
	require.Equal(suite.T(), "cart.item_added", published[0].EventType)
	require.Equal(suite.T(), "cart.item_updated", published[1].EventType)
	require.Equal(suite.T(), "cart-7", published[0].AggregateID)

	remaining, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), remaining)
}

// decimalString нормализует значение из JSON (строка или число) в decimal-строку.
func decimalString(t *testing.T, v any) string {
	t.Helper()

	switch value := v.(type) {
	case string:
		return decimal.RequireFromString(value).String()
	case float64:
		return decimal.NewFromFloat(value).String()
	default:
		t.Fatalf("unexpected value type %T", v)
		return ""
	}
}

func TestCartLifecycle(t *testing.T) {
	suite.Run(t, new(CartLifecycleTestSuite))
}
