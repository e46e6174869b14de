package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/storage/memory"
)

func TestChangelogRepository_AppendAndList(t *testing.T) {
	repo := memory.NewChangelogRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	changes := []domain.StatusChange{
		{OrderID: "5", OldStatus: domain.OrderStatusProcessing, NewStatus: domain.OrderStatusShipped, CreatedAt: base.Add(time.Minute)},
		{OrderID: "5", OldStatus: domain.OrderStatusPending, NewStatus: domain.OrderStatusProcessing, CreatedAt: base},
		{OrderID: "9", OldStatus: domain.OrderStatusPending, NewStatus: domain.OrderStatusCanceled, CreatedAt: base},
	}
	for _, change := range changes {
		if err := repo.Append(ctx, change); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.ListByOrder(ctx, "5")
	if err != nil {
		t.Fatalf("ListByOrder failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 changes for order 5, got %d", len(got))
	}
	// Записи возвращаются в хронологическом порядке.
	if got[0].NewStatus != domain.OrderStatusProcessing || got[1].NewStatus != domain.OrderStatusShipped {
		t.Fatalf("unexpected order of changes: %+v", got)
	}
	for _, change := range got {
		if change.ID == "" {
			t.Fatal("appended change must receive an id")
		}
	}
}

func TestChangelogRepository_ListEmpty(t *testing.T) {
	repo := memory.NewChangelogRepository()

	got, err := repo.ListByOrder(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("ListByOrder failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(got))
	}
}
