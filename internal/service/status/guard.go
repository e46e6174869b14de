package status

import (
	"context"
	"fmt"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

const cooldownKeyPrefix = "order_status_change"

// CooldownGuard ограничивает частоту попыток смены статуса по ключу
// (заказ, магазин, адрес клиента). Окно фиксированное: отсчитывается от
// первой попытки и не продлевается заблокированными.
type CooldownGuard struct {
	store domain.CooldownStore
}

// NewCooldownGuard создаёт guard поверх хранилища cooldown-записей.
func NewCooldownGuard(store domain.CooldownStore) *CooldownGuard {
	return &CooldownGuard{store: store}
}

// Acquire атомарно проверяет окно и записывает попытку одним обращением
// к хранилищу. Раздельные load/save здесь недопустимы: два конкурентных
// запроса увидели бы отсутствие записи и оба прошли бы дальше.
// lifetime <= 0 отключает ограничение (окно нулевой длины).
func (g *CooldownGuard) Acquire(ctx context.Context, orderID, storeID, clientAddr string, lifetime time.Duration) (bool, error) {
	if lifetime <= 0 {
		return true, nil
	}

	acquired, err := g.store.Acquire(ctx, BuildCooldownKey(orderID, storeID, clientAddr), lifetime)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrCooldownUnavailable, err)
	}
	return acquired, nil
}

// BuildCooldownKey собирает ключ из идентификаторов с длинами-префиксами.
// Разделитель внутри идентификатора не приводит к коллизии: длина каждого
// сегмента закодирована явно.
func BuildCooldownKey(orderID, storeID, clientAddr string) string {
	return fmt.Sprintf("%s:%d:%s:%d:%s:%d:%s",
		cooldownKeyPrefix,
		len(orderID), orderID,
		len(storeID), storeID,
		len(clientAddr), clientAddr,
	)
}
