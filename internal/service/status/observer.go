package status

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
)

// runPostCommit запускает обработку уже зафиксированной смены статуса:
// запись в журнал и, при отгрузке, уведомление покупателя. Контекст
// отвязывается от запроса, чтобы отправка ответа не отменяла хук.
func (s *Service) runPostCommit(ctx context.Context, order domain.Order, oldStatus domain.OrderStatus) {
	s.hookMu.Lock()
	if s.hookClosed {
		s.hookMu.Unlock()
		s.logger.WithField("order_id", order.ID).Warn("post-commit hook skipped during shutdown")
		return
	}
	s.hookWG.Add(1)
	s.hookMu.Unlock()

	hookCtx := context.WithoutCancel(ctx)
	go func() {
		defer s.hookWG.Done()
		s.recordChange(hookCtx, order, oldStatus)
		s.publishStatusChanged(hookCtx, order, oldStatus)
		if order.Status == domain.OrderStatusShipped {
			s.notifyShipped(hookCtx, order)
		}
	}()
}

// recordChange добавляет запись в журнал смен статуса.
func (s *Service) recordChange(ctx context.Context, order domain.Order, oldStatus domain.OrderStatus) {
	if s.changelog == nil {
		return
	}

	change := domain.StatusChange{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: order.Status,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.changelog.Append(ctx, change); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"new_status": order.Status,
		}).Warn("failed to append status change log")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordChangelogAppend()
	}
}

// publishStatusChanged публикует событие смены статуса во внешнюю шину.
// Публикация best-effort: ошибка логируется, статус не откатывается.
func (s *Service) publishStatusChanged(ctx context.Context, order domain.Order, oldStatus domain.OrderStatus) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishStatusChanged(ctx, order.ID, oldStatus, order.Status); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"new_status": order.Status,
		}).Warn("failed to publish status change event")
	}
}

// notifyShipped отправляет покупателю уведомление об отгрузке.
// Уведомление best-effort: ошибка логируется, статус не откатывается.
func (s *Service) notifyShipped(ctx context.Context, order domain.Order) {
	if s.notifier == nil {
		return
	}

	comment := "Order status changed programmatically to " + string(order.Status) + "."
	if err := s.notifier.NotifyShipped(ctx, order, comment); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to notify customer about shipment")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationSent()
	}
	s.logger.WithField("order_id", order.ID).Info("customer notified about shipment")
}

func trimmed(raw string) string {
	return strings.TrimSpace(raw)
}
