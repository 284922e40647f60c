package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cart/internal/domain"
	cartsvc "github.com/vladislavdragonenkov/cart/internal/service/cart"
)

// CartHandler обслуживает REST-ручки корзины поверх сервиса.
type CartHandler struct {
	service *cartsvc.Service
	logger  *log.Entry
}

// NewCartHandler конструирует обработчик.
func NewCartHandler(service *cartsvc.Service, logger *log.Entry) *CartHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http-cart-handler")
	}
	return &CartHandler{service: service, logger: logger}
}

type addItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"qty"`
}

type updateItemRequest struct {
	Quantity int32 `json:"qty"`
}

type cartLineResponse struct {
	CartID    string    `json:"cart_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int32     `json:"qty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type cartLineViewResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"item_name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int32           `json:"qty"`
	Value     decimal.Decimal `json:"value"`
}

type activityEventResponse struct {
	CartID   string    `json:"cart_id"`
	ItemID   string    `json:"item_id"`
	Action   string    `json:"action"`
	Quantity int32     `json:"qty"`
	Occurred time.Time `json:"occurred"`
}

func toLineResponse(line domain.CartLine) cartLineResponse {
	return cartLineResponse{
		CartID:    line.CartID,
		ItemID:    line.ItemID,
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	}
}

func toViewResponse(view domain.CartLineView) cartLineViewResponse {
	return cartLineViewResponse{
		ItemID:    view.ItemID,
		Name:      view.Name,
		Unit:      view.Unit,
		UnitPrice: view.UnitPrice,
		Quantity:  view.Quantity,
		Value:     view.Value,
	}
}

// ListItems отвечает на GET /shoppingcart/:cartId/items.
// Пустая корзина — это пустой массив, а не 404.
func (h *CartHandler) ListItems(c *gin.Context) {
	views, err := h.service.ListItems(c.Param("cartId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]cartLineViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toViewResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// GetItem отвечает на GET /shoppingcart/:cartId/item/:itemId.
func (h *CartHandler) GetItem(c *gin.Context) {
	view, err := h.service.GetItem(c.Param("cartId"), c.Param("itemId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewResponse(view))
}

// AddItem отвечает на POST /shoppingcart/:cartId/item.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("bad add item payload")
		respondError(c, http.StatusBadRequest, CodeInvalidArgument, err)
		return
	}

	line, err := h.service.AddItem(c.Param("cartId"), req.ItemID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLineResponse(line))
}

// UpdateItem отвечает на PUT /shoppingcart/:cartId/item/:itemId.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("bad update item payload")
		respondError(c, http.StatusBadRequest, CodeInvalidArgument, err)
		return
	}

	line, err := h.service.UpdateItem(c.Param("cartId"), c.Param("itemId"), req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponse(line))
}

// DeleteItem отвечает на DELETE /shoppingcart/:cartId/item/:itemId.
func (h *CartHandler) DeleteItem(c *gin.Context) {
	cartID := c.Param("cartId")
	itemID := c.Param("itemId")

	if err := h.service.DeleteItem(cartID, itemID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "item removed from cart",
		"cart_id": cartID,
		"item_id": itemID,
	})
}

// ListActivity отвечает на GET /shoppingcart/:cartId/activity.
func (h *CartHandler) ListActivity(c *gin.Context) {
	events, err := h.service.ListActivity(c.Param("cartId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]activityEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, activityEventResponse{
			CartID:   e.CartID,
			ItemID:   e.ItemID,
			Action:   string(e.Action),
			Quantity: e.Quantity,
			Occurred: e.Occurred,
		})
	}
	c.JSON(http.StatusOK, out)
}
