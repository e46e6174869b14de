package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/storage/memory"
)

func makeStoredOrder(id string) domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:            id,
		StoreID:       "1",
		CustomerEmail: "customer@example.com",
		State:         domain.OrderStateNew,
		Status:        domain.OrderStatusPending,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, makeStoredOrder("5")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get(ctx, "5")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != domain.OrderStatusPending {
		t.Fatalf("expected status pending, got %s", got.Status)
	}

	if err := repo.Create(ctx, makeStoredOrder("5")); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on duplicate, got %v", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := memory.NewOrderRepository()

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, makeStoredOrder("7")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "7", domain.OrderStateProcessing, domain.OrderStatusProcessing, 0); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	got, err := repo.Get(ctx, "7")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != domain.OrderStateProcessing || got.Status != domain.OrderStatusProcessing {
		t.Fatalf("transition not applied: %+v", got)
	}
	if got.Version != 1 {
		t.Fatalf("expected version bump to 1, got %d", got.Version)
	}

	// Повторная запись со старой версией отклоняется.
	if err := repo.UpdateStatus(ctx, "7", domain.OrderStateComplete, domain.OrderStatusComplete, 0); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict, got %v", err)
	}

	if err := repo.UpdateStatus(ctx, "missing", domain.OrderStateNew, domain.OrderStatusPending, 0); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
