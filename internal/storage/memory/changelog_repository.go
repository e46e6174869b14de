package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartworking/order-processing/internal/domain"
)

// changelogRepositoryInMemory хранит журнал смен статуса в памяти (для разработки/тестов).
type changelogRepositoryInMemory struct {
	mu      sync.RWMutex
	changes map[string][]domain.StatusChange
}

// NewChangelogRepository создаёт in-memory реализацию ChangelogRepository.
func NewChangelogRepository() domain.ChangelogRepository {
	return &changelogRepositoryInMemory{changes: make(map[string][]domain.StatusChange)}
}

// Append добавляет запись в журнал.
func (r *changelogRepositoryInMemory) Append(_ context.Context, change domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}

	r.changes[change.OrderID] = append(r.changes[change.OrderID], change)

	sort.Slice(r.changes[change.OrderID], func(i, j int) bool {
		return r.changes[change.OrderID][i].CreatedAt.Before(r.changes[change.OrderID][j].CreatedAt)
	})

	return nil
}

// ListByOrder возвращает записи заказа в хронологическом порядке.
func (r *changelogRepositoryInMemory) ListByOrder(_ context.Context, orderID string) ([]domain.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := r.changes[orderID]
	result := make([]domain.StatusChange, len(changes))
	copy(result, changes)
	return result, nil
}

var _ domain.ChangelogRepository = (*changelogRepositoryInMemory)(nil)
