package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/messaging/kafka"
)

const consumerGroupID = "ordproc-notify-worker"

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	brokers := parseBrokers(os.Getenv("COP_KAFKA_BROKERS"))
	if len(brokers) == 0 {
		log.Fatal("COP_KAFKA_BROKERS is required")
	}

	logger := log.WithField("component", "notify-worker")

	dlqProducer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Fatal("failed to create dlq producer")
	}
	defer func() {
		_ = dlqProducer.Close()
	}()

	consumer, err := kafka.NewConsumerWithDLQ(
		brokers,
		consumerGroupID,
		[]string{kafka.TopicStatusEvents},
		handleMessage(logger),
		dlqProducer,
		3,
	)
	if err != nil {
		logger.WithError(err).Fatal("failed to create consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.WithError(err).Fatal("failed to start consumer")
	}
	logger.WithField("brokers", brokers).Info("notify worker started")

	<-ctx.Done()
	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Error("failed to stop consumer")
	}
	logger.Info("notify worker stopped")
}

// handleMessage обрабатывает события из топика статусов. Нам интересны
// только отгрузки; остальные события подтверждаются без обработки.
func handleMessage(logger *log.Entry) kafka.MessageHandler {
	return func(_ context.Context, message *sarama.ConsumerMessage) error {
		event, err := kafka.ParseOrderShippedEvent(message)
		if err != nil {
			return fmt.Errorf("parse event: %w", err)
		}
		if event.EventType != kafka.EventTypeOrderShipped {
			return nil
		}

		return deliverNotification(logger, event)
	}
}

// deliverNotification отправляет покупателю письмо об отгрузке.
// TODO: подключить SMTP-шлюз магазина; пока доставка ограничена логом.
func deliverNotification(logger *log.Entry, event *kafka.OrderShippedEvent) error {
	if strings.TrimSpace(event.CustomerEmail) == "" {
		logger.WithField("order_id", event.OrderID).Warn("shipped event without customer email, skipping")
		return nil
	}

	logger.WithFields(log.Fields{
		"order_id": event.OrderID,
		"store_id": event.StoreID,
		"email":    event.CustomerEmail,
	}).Info("shipment notification delivered")
	return nil
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		broker := strings.TrimSpace(chunk)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	return brokers
}
