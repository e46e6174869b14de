package kafka

import (
	"context"

	"github.com/smartworking/order-processing/internal/domain"
)

// Notifier публикует событие отгрузки в Kafka вместо прямой отправки
// письма: доставкой уведомления занимается notify-worker. Смена статуса
// уже зафиксирована, поэтому ошибка публикации наружу не эскалируется.
type Notifier struct {
	producer *Producer
}

// NewNotifier создает Kafka-реализацию NotificationSender.
func NewNotifier(producer *Producer) *Notifier {
	return &Notifier{producer: producer}
}

func (n *Notifier) NotifyShipped(_ context.Context, order domain.Order, comment string) error {
	event := NewOrderShippedEvent(order, comment)
	return n.producer.PublishEvent(TopicStatusEvents, order.ID, event)
}

// PublishStatusChanged публикует событие о любой зафиксированной смене
// статуса; отгрузка дополнительно порождает отдельное событие выше.
func (n *Notifier) PublishStatusChanged(_ context.Context, orderID string, oldStatus, newStatus domain.OrderStatus) error {
	event := NewStatusChangedEvent(orderID, oldStatus, newStatus, nil)
	return n.producer.PublishEvent(TopicStatusEvents, orderID, event)
}

var (
	_ domain.NotificationSender   = (*Notifier)(nil)
	_ domain.StatusEventPublisher = (*Notifier)(nil)
)
