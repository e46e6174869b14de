package status_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartworking/order-processing/internal/service/status"
)

// countingSweepStore считает вызовы DeleteExpired.
type countingSweepStore struct {
	mu      sync.Mutex
	calls   int
	deleted int
	err     error
}

func (s *countingSweepStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.deleted, nil
}

func (s *countingSweepStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitForCalls(t *testing.T, store *countingSweepStore, want int) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for store.callCount() < want {
		select {
		case <-deadline:
			t.Fatalf("expected at least %d cleanup calls, got %d", want, store.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCleanupWorker_SweepsPeriodically(t *testing.T) {
	store := &countingSweepStore{deleted: 3}
	worker := status.NewCleanupWorker(store,
		status.WithCleanupLogger(loggerForTests()),
		status.WithCleanupInterval(10*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	// Первый проход выполняется сразу, дальше по тикеру.
	waitForCalls(t, store, 2)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

// Ошибка одного прохода не останавливает воркер.
func TestCleanupWorker_KeepsRunningAfterError(t *testing.T) {
	store := &countingSweepStore{err: errors.New("connection reset")}
	worker := status.NewCleanupWorker(store,
		status.WithCleanupLogger(loggerForTests()),
		status.WithCleanupInterval(10*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	waitForCalls(t, store, 3)
}

func TestCleanupWorker_NilStoreIsNoOp(t *testing.T) {
	worker := status.NewCleanupWorker(nil, status.WithCleanupLogger(loggerForTests()))

	done := make(chan struct{})
	go func() {
		worker.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker with nil store must return immediately")
	}
}

func TestCleanupWorker_DefaultsApplied(t *testing.T) {
	store := &countingSweepStore{}
	worker := status.NewCleanupWorker(store, status.WithCleanupInterval(-time.Second))
	require.NotNil(t, worker)

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	// Некорректный интервал откатывается на дефолт; первый проход
	// всё равно выполняется сразу.
	waitForCalls(t, store, 1)
	cancel()
}