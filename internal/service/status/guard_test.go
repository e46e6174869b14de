package status_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/service/status"
	"github.com/smartworking/order-processing/internal/storage/memory"
)

func TestBuildCooldownKey_LengthPrefixed(t *testing.T) {
	key := status.BuildCooldownKey("5", "1", "10.0.0.1")
	want := "order_status_change:1:5:1:1:8:10.0.0.1"
	if key != want {
		t.Fatalf("BuildCooldownKey = %q, want %q", key, want)
	}
}

// Разделитель внутри идентификатора не должен давать коллизий:
// длины сегментов различают (a_b, c) и (a, b_c).
func TestBuildCooldownKey_NoSeparatorCollision(t *testing.T) {
	left := status.BuildCooldownKey("5:1", "2", "addr")
	right := status.BuildCooldownKey("5", "1:2", "addr")
	if left == right {
		t.Fatalf("keys must differ, both are %q", left)
	}
}

func TestCooldownGuard_AcquireAndBlock(t *testing.T) {
	guard := status.NewCooldownGuard(memory.NewCooldownStore())
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "5", "1", "10.0.0.1", time.Hour)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !acquired {
		t.Fatal("first attempt must pass")
	}

	acquired, err = guard.Acquire(ctx, "5", "1", "10.0.0.1", time.Hour)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if acquired {
		t.Fatal("repeated attempt must be blocked")
	}

	// Другой клиент с того же заказа не блокируется.
	acquired, err = guard.Acquire(ctx, "5", "1", "10.0.0.2", time.Hour)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !acquired {
		t.Fatal("different client address must not share the window")
	}
}

func TestCooldownGuard_ZeroLifetimeDisablesLimit(t *testing.T) {
	guard := status.NewCooldownGuard(memory.NewCooldownStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		acquired, err := guard.Acquire(ctx, "5", "1", "10.0.0.1", 0)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if !acquired {
			t.Fatal("zero lifetime must never block")
		}
	}
}

type failingCooldownStore struct{}

func (failingCooldownStore) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestCooldownGuard_StoreFailureWrapped(t *testing.T) {
	guard := status.NewCooldownGuard(failingCooldownStore{})

	_, err := guard.Acquire(context.Background(), "5", "1", "addr", time.Minute)
	if !errors.Is(err, domain.ErrCooldownUnavailable) {
		t.Fatalf("expected ErrCooldownUnavailable, got %v", err)
	}
}
