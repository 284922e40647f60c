package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cart/internal/domain"
	"github.com/vladislavdragonenkov/cart/internal/metrics"
)

const (
	aggregateTypeCart = "cart"

	eventTypeItemAdded   = "cart.item_added"
	eventTypeItemUpdated = "cart.item_updated"
	eventTypeItemRemoved = "cart.item_removed"

	resultOK              = "ok"
	resultInvalidArgument = "invalid_argument"
	resultNotFound        = "not_found"
	resultConflict        = "conflict"
	resultError           = "error"
)

// Service реализует операции над позициями корзины поверх доменных репозиториев.
// Справочник товаров доступен только на чтение; принадлежность item_id
// справочнику при записи не проверяется, невидимые позиции отфильтровывает join.
type Service struct {
	lines    domain.CartLineRepository
	activity domain.ActivityRepository
	outbox   domain.OutboxRepository
	logger   *log.Entry
	metrics  *metrics.CartMetrics
}

// NewService конструирует сервис с зависимостями.
func NewService(
	lines domain.CartLineRepository,
	activity domain.ActivityRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
	cartMetrics *metrics.CartMetrics,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "cart-service")
	}
	return &Service{
		lines:    lines,
		activity: activity,
		outbox:   outbox,
		logger:   logger,
		metrics:  cartMetrics,
	}
}

// ListItems возвращает все видимые позиции корзины со стоимостью qty*price.
// Пустая корзина — это пустой список, а не ошибка.
func (s *Service) ListItems(cartID string) ([]domain.CartLineView, error) {
	defer s.observe("list_items", time.Now())

	if err := validateCartID(cartID); err != nil {
		s.record("list_items", resultInvalidArgument)
		return nil, err
	}

	views, err := s.lines.ListViews(cartID)
	if err != nil {
		s.record("list_items", resultError)
		return nil, s.storeFailure("ListItems", cartID, "", err)
	}

	s.record("list_items", resultOK)
	return views, nil
}

// GetItem возвращает одну позицию корзины.
func (s *Service) GetItem(cartID, itemID string) (domain.CartLineView, error) {
	defer s.observe("get_item", time.Now())

	if err := validateLineKey(cartID, itemID); err != nil {
		s.record("get_item", resultInvalidArgument)
		return domain.CartLineView{}, err
	}

	view, err := s.lines.GetView(cartID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrCartLineNotFound) {
			s.record("get_item", resultNotFound)
			return domain.CartLineView{}, err
		}
		s.record("get_item", resultError)
		return domain.CartLineView{}, s.storeFailure("GetItem", cartID, itemID, err)
	}

	s.record("get_item", resultOK)
	return view, nil
}

// AddItem добавляет позицию в корзину. Повторное добавление той же пары
// (cart_id, item_id) отклоняется конфликтом: количество меняет только update.
func (s *Service) AddItem(cartID, itemID string, qty int32) (domain.CartLine, error) {
	defer s.observe("add_item", time.Now())

	line := domain.CartLine{CartID: cartID, ItemID: itemID, Quantity: qty}
	if errs := line.ValidateInvariants(); len(errs) > 0 {
		s.record("add_item", resultInvalidArgument)
		return domain.CartLine{}, errs[0]
	}

	inserted, err := s.lines.Insert(line)
	if err != nil {
		if errors.Is(err, domain.ErrCartLineExists) {
			s.record("add_item", resultConflict)
			if s.metrics != nil {
				s.metrics.RecordInsertConflict()
			}
			return domain.CartLine{}, err
		}
		s.record("add_item", resultError)
		return domain.CartLine{}, s.storeFailure("AddItem", cartID, itemID, err)
	}

	s.recordLineChange(domain.CartActionAdded, eventTypeItemAdded, inserted)
	s.record("add_item", resultOK)
	return inserted, nil
}

// UpdateItem заменяет количество существующей позиции.
func (s *Service) UpdateItem(cartID, itemID string, qty int32) (domain.CartLine, error) {
	defer s.observe("update_item", time.Now())

	line := domain.CartLine{CartID: cartID, ItemID: itemID, Quantity: qty}
	if errs := line.ValidateInvariants(); len(errs) > 0 {
		s.record("update_item", resultInvalidArgument)
		return domain.CartLine{}, errs[0]
	}

	updated, err := s.lines.UpdateQuantity(cartID, itemID, qty)
	if err != nil {
		if errors.Is(err, domain.ErrCartLineNotFound) {
			s.record("update_item", resultNotFound)
			return domain.CartLine{}, err
		}
		s.record("update_item", resultError)
		return domain.CartLine{}, s.storeFailure("UpdateItem", cartID, itemID, err)
	}

	s.recordLineChange(domain.CartActionUpdated, eventTypeItemUpdated, updated)
	s.record("update_item", resultOK)
	return updated, nil
}

// DeleteItem удаляет позицию из корзины.
func (s *Service) DeleteItem(cartID, itemID string) error {
	defer s.observe("delete_item", time.Now())

	if err := validateLineKey(cartID, itemID); err != nil {
		s.record("delete_item", resultInvalidArgument)
		return err
	}

	if err := s.lines.Delete(cartID, itemID); err != nil {
		if errors.Is(err, domain.ErrCartLineNotFound) {
			s.record("delete_item", resultNotFound)
			return err
		}
		s.record("delete_item", resultError)
		return s.storeFailure("DeleteItem", cartID, itemID, err)
	}

	s.recordLineChange(domain.CartActionRemoved, eventTypeItemRemoved, domain.CartLine{CartID: cartID, ItemID: itemID})
	s.record("delete_item", resultOK)
	return nil
}

// ListActivity возвращает историю изменений корзины.
func (s *Service) ListActivity(cartID string) ([]domain.CartActivityEvent, error) {
	defer s.observe("list_activity", time.Now())

	if err := validateCartID(cartID); err != nil {
		s.record("list_activity", resultInvalidArgument)
		return nil, err
	}
	if s.activity == nil {
		s.record("list_activity", resultOK)
		return nil, nil
	}

	events, err := s.activity.List(cartID)
	if err != nil {
		s.record("list_activity", resultError)
		return nil, s.storeFailure("ListActivity", cartID, "", err)
	}

	s.record("list_activity", resultOK)
	return events, nil
}

// recordLineChange пишет событие в историю корзины и ставит его в outbox.
// Неудача побочных эффектов не отменяет успешную основную операцию.
func (s *Service) recordLineChange(action domain.CartAction, eventType string, line domain.CartLine) {
	occurred := time.Now().UTC()

	if s.activity != nil {
		event := domain.CartActivityEvent{
			CartID:   line.CartID,
			ItemID:   line.ItemID,
			Action:   action,
			Quantity: line.Quantity,
			Occurred: occurred,
		}
		if err := s.activity.Append(event); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"cart_id": line.CartID,
				"item_id": line.ItemID,
				"action":  action,
			}).Warn("failed to append cart activity event")
		} else if s.metrics != nil {
			s.metrics.RecordActivityEvent()
		}
	}

	if s.outbox != nil {
		payload, err := json.Marshal(struct {
			CartID   string    `json:"cart_id"`
			ItemID   string    `json:"item_id"`
			Quantity int32     `json:"qty"`
			Occurred time.Time `json:"occurred"`
		}{
			CartID:   line.CartID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Occurred: occurred,
		})
		if err != nil {
			s.logger.WithError(err).Warn("failed to encode outbox payload")
			return
		}

		if _, err := s.outbox.Enqueue(domain.OutboxMessage{
			AggregateType: aggregateTypeCart,
			AggregateID:   line.CartID,
			EventType:     eventType,
			Payload:       payload,
		}); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"cart_id":    line.CartID,
				"item_id":    line.ItemID,
				"event_type": eventType,
			}).Warn("failed to enqueue outbox message")
		} else if s.metrics != nil {
			s.metrics.RecordOutboxEvent()
		}
	}
}

func (s *Service) storeFailure(operation, cartID, itemID string, err error) error {
	s.logger.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"cart_id":   cartID,
		"item_id":   itemID,
	}).Error("cart store operation failed")

	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func (s *Service) record(operation, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperation(operation, result)
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperationDuration(operation, time.Since(start))
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return domain.ErrCartIDRequired
	}
	return nil
}

func validateLineKey(cartID, itemID string) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}
	if strings.TrimSpace(itemID) == "" {
		return domain.ErrItemIDRequired
	}
	return nil
}
