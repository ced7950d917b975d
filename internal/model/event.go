package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderEventType — вид изменения заказа
type OrderEventType string

const (
	OrderCreated OrderEventType = "order.created"
	OrderUpdated OrderEventType = "order.updated"
	OrderDeleted OrderEventType = "order.deleted"
)

// OrderEvent — запись об изменении заказа, уходит в поток событий
type OrderEvent struct {
	ID         uuid.UUID      `json:"event_id"`
	Type       OrderEventType `json:"type"`
	Order      Order          `json:"order"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewOrderEvent создаёт событие с новым идентификатором
func NewOrderEvent(t OrderEventType, order Order) OrderEvent {
	return OrderEvent{
		ID:         uuid.New(),
		Type:       t,
		Order:      order,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate проверяет событие, прочитанное из потока
func (e OrderEvent) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: event id is empty", ErrValidation)
	}

	switch e.Type {
	case OrderCreated, OrderUpdated, OrderDeleted:
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, e.Type)
	}

	return e.Order.Validate()
}
