package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

// cooldownStoreInMemory — in-memory реализация CooldownStore.
// Записи истекают пассивно: просроченная запись перезаписывается при
// следующем Acquire и вычищается фоновой уборкой при росте карты.
type cooldownStoreInMemory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	// now — источник времени; тесты подменяют его через NewCooldownStoreWithClock.
	now func() time.Time
}

// NewCooldownStore создаёт in-memory реализацию CooldownStore.
func NewCooldownStore() domain.CooldownStore {
	return NewCooldownStoreWithClock(time.Now)
}

// NewCooldownStoreWithClock создаёт хранилище с внешним источником времени,
// чтобы тесты истечения окна не зависели от реального времени.
func NewCooldownStoreWithClock(now func() time.Time) domain.CooldownStore {
	return &cooldownStoreInMemory{
		entries: make(map[string]time.Time),
		now:     now,
	}
}

// Acquire атомарно проверяет и записывает cooldown-окно под одной блокировкой.
// Действующее окно не продлевается: окно фиксированное, от первой попытки.
func (s *cooldownStoreInMemory) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, domain.ErrCooldownKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if expiresAt, ok := s.entries[key]; ok && expiresAt.After(now) {
		return false, nil
	}

	s.entries[key] = now.Add(ttl)
	s.sweepLocked(now)
	return true, nil
}

// sweepLocked удаляет просроченные записи, чтобы карта не росла бесконечно.
// Вызывается под мьютексом.
func (s *cooldownStoreInMemory) sweepLocked(now time.Time) {
	if len(s.entries) < 1024 {
		return
	}
	for key, expiresAt := range s.entries {
		if !expiresAt.After(now) {
			delete(s.entries, key)
		}
	}
}

var _ domain.CooldownStore = (*cooldownStoreInMemory)(nil)
