package kafka

import (
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	// События смены статуса заказа
	EventTypeStatusChanged EventType = "order.status_changed"
	EventTypeOrderShipped  EventType = "order.shipped"
)

// Topics для Kafka
const (
	TopicStatusEvents    = "ordproc.status.events"
	TopicDeadLetterQueue = "ordproc.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// StatusChangedEvent представляет зафиксированную смену статуса заказа
type StatusChangedEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	OldStatus string                 `json:"old_status"`
	NewStatus string                 `json:"new_status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// OrderShippedEvent представляет отгрузку заказа; потребляется
// notify-worker для отправки уведомления покупателю
type OrderShippedEvent struct {
	EventType     EventType `json:"event_type"`
	OrderID       string    `json:"order_id"`
	StoreID       string    `json:"store_id"`
	CustomerEmail string    `json:"customer_email"`
	Comment       string    `json:"comment"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewStatusChangedEvent создает событие смены статуса
func NewStatusChangedEvent(orderID string, oldStatus, newStatus domain.OrderStatus, metadata map[string]interface{}) *StatusChangedEvent {
	return &StatusChangedEvent{
		EventType: EventTypeStatusChanged,
		OrderID:   orderID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// NewOrderShippedEvent создает событие отгрузки заказа
func NewOrderShippedEvent(order domain.Order, comment string) *OrderShippedEvent {
	return &OrderShippedEvent{
		EventType:     EventTypeOrderShipped,
		OrderID:       order.ID,
		StoreID:       order.StoreID,
		CustomerEmail: order.CustomerEmail,
		Comment:       comment,
		Timestamp:     time.Now(),
	}
}
