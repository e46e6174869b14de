package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartworking/order-processing/internal/domain"
)

const defaultOpTimeout = 3 * time.Second

// CooldownStore реализует cooldown-окно поверх Redis.
// SET NX с TTL атомарен на стороне сервера: ровно один из конкурирующих
// запросов записывает ключ, остальные получают отказ до истечения TTL.
type CooldownStore struct {
	client *redis.Client
}

// NewCooldownStore создаёт Redis-реализацию CooldownStore.
func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client}
}

// Open подключается к Redis и проверяет доступность.
func Open(ctx context.Context, addr string) (*CooldownStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewCooldownStore(client), nil
}

func (s *CooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, domain.ErrCooldownKeyRequired
	}

	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	acquired, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire cooldown lock: %w", err)
	}

	return acquired, nil
}

// Ping проверяет доступность Redis для health-проверок.
func (s *CooldownStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redis cooldown store is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close закрывает подключение к Redis.
func (s *CooldownStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

var _ domain.CooldownStore = (*CooldownStore)(nil)
