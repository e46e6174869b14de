package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

// CooldownStore — PostgreSQL-реализация cooldown-хранилища.
// Основное хранилище cooldown — Redis; эта реализация для стендов,
// где отдельный кэш не разворачивают.
type CooldownStore struct {
	db *sql.DB
}

// NewCooldownStore создаёт PostgreSQL-реализацию CooldownStore.
func NewCooldownStore(store *Store) *CooldownStore {
	return &CooldownStore{db: store.DB()}
}

// Acquire атомарно захватывает cooldown-окно: вставка выигрывает ключ,
// upsert перезаписывает только истёкшую запись. Ровно один из
// конкурирующих запросов получает RowsAffected=1.
func (s *CooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, domain.ErrCooldownKeyRequired
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO cooldown_locks (key, expires_at, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
		WHERE cooldown_locks.expires_at <= $3
	`, key, now.Add(ttl), now)
	if err != nil {
		return false, fmt.Errorf("acquire cooldown lock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cooldown rows affected: %w", err)
	}

	return affected == 1, nil
}

// DeleteExpired удаляет истёкшие записи; вызывается фоновой уборкой.
func (s *CooldownStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM cooldown_locks
		WHERE expires_at <= $1
	`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired cooldown locks: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cooldown rows affected: %w", err)
	}

	return int(affected), nil
}

var _ domain.CooldownStore = (*CooldownStore)(nil)
