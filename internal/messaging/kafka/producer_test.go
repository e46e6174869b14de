package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewStatusChangedEvent(
		"5",
		domain.OrderStatusPending,
		domain.OrderStatusProcessing,
		map[string]interface{}{
			"store_id": "1",
		},
	)

	err := producer.PublishEvent(TopicStatusEvents, "5", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewStatusChangedEvent("5", domain.OrderStatusPending, domain.OrderStatusProcessing, nil)

	err := producer.PublishEvent(TopicStatusEvents, "5", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewStatusChangedEvent(t *testing.T) {
	event := NewStatusChangedEvent("5", domain.OrderStatusPending, domain.OrderStatusProcessing, map[string]interface{}{
		"store_id": "1",
	})

	if event.EventType != EventTypeStatusChanged {
		t.Errorf("expected event type %s, got %s", EventTypeStatusChanged, event.EventType)
	}
	if event.OrderID != "5" {
		t.Errorf("expected order id 5, got %s", event.OrderID)
	}
	if event.OldStatus != "pending" || event.NewStatus != "processing" {
		t.Errorf("unexpected statuses: %s -> %s", event.OldStatus, event.NewStatus)
	}
	if event.Metadata["store_id"] != "1" {
		t.Error("metadata not set correctly")
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}

func TestNewOrderShippedEvent(t *testing.T) {
	order := domain.Order{
		ID:            "5",
		StoreID:       "1",
		CustomerEmail: "customer@example.com",
		Status:        domain.OrderStatusShipped,
	}

	event := NewOrderShippedEvent(order, "Order status changed programmatically to shipped.")

	if event.EventType != EventTypeOrderShipped {
		t.Errorf("expected event type %s, got %s", EventTypeOrderShipped, event.EventType)
	}
	if event.OrderID != "5" || event.StoreID != "1" {
		t.Errorf("unexpected identifiers: order=%s store=%s", event.OrderID, event.StoreID)
	}
	if event.CustomerEmail != "customer@example.com" {
		t.Errorf("unexpected email: %s", event.CustomerEmail)
	}
	if event.Comment == "" {
		t.Error("comment should be set")
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
}
