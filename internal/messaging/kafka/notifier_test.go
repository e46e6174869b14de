package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
)

func TestNotifier_NotifyShipped(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event OrderShippedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeOrderShipped {
			t.Errorf("unexpected event type: %s", event.EventType)
		}
		if event.OrderID != "5" {
			t.Errorf("unexpected order id: %s", event.OrderID)
		}
		return nil
	})

	notifier := NewNotifier(&Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-notifier-test"),
	})

	order := domain.Order{
		ID:            "5",
		StoreID:       "1",
		CustomerEmail: "customer@example.com",
		Status:        domain.OrderStatusShipped,
	}
	if err := notifier.NotifyShipped(context.Background(), order, "Order status changed programmatically to shipped."); err != nil {
		t.Fatalf("NotifyShipped failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotifier_PublishStatusChanged(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event StatusChangedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeStatusChanged {
			t.Errorf("unexpected event type: %s", event.EventType)
		}
		if event.OrderID != "5" {
			t.Errorf("unexpected order id: %s", event.OrderID)
		}
		if event.OldStatus != string(domain.OrderStatusPending) || event.NewStatus != string(domain.OrderStatusProcessing) {
			t.Errorf("unexpected status pair: %s -> %s", event.OldStatus, event.NewStatus)
		}
		return nil
	})

	notifier := NewNotifier(&Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-notifier-test"),
	})

	if err := notifier.PublishStatusChanged(context.Background(), "5", domain.OrderStatusPending, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("PublishStatusChanged failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotifier_NotifyShipped_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	notifier := NewNotifier(&Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-notifier-test"),
	})

	if err := notifier.NotifyShipped(context.Background(), domain.Order{ID: "5"}, "comment"); err == nil {
		t.Fatal("expected publish error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
