package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/messaging/kafka"
)

// initKafkaNotifier создаёт Kafka producer и notifier поверх него.
// Kafka опционален: без брокеров события статусов не публикуются и
// уведомления об отгрузке не отправляются, сервис продолжает работать.
func initKafkaNotifier(brokers []string, logger *log.Entry) (*kafka.Producer, domain.NotificationSender, domain.StatusEventPublisher) {
	if len(brokers) == 0 {
		logger.Warn("kafka brokers are not configured, status events and shipment notifications disabled")
		return nil, nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, nil, nil
	}

	notifier := kafka.NewNotifier(producer)
	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, notifier, notifier
}
