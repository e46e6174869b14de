package domain

import (
	"context"
	"time"
)

// OrderRepository описывает требования к хранилищу заказов.
// Сами заказы принадлежат внешней OMS; сервис читает срез атрибутов
// и сохраняет только новую пару (state, status).
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// UpdateStatus применяет одобренный переход с учётом optimistic locking.
	UpdateStatus(ctx context.Context, id string, state OrderState, status OrderStatus, version int64) error
}

// ChangelogRepository хранит журнал смен статуса.
type ChangelogRepository interface {
	Append(ctx context.Context, change StatusChange) error
	ListByOrder(ctx context.Context, orderID string) ([]StatusChange, error)
}

// CooldownStore — хранилище cooldown-записей с атомарным захватом.
// Acquire выполняет условную запись "вставить, если отсутствует" с TTL
// одним обращением: true означает, что окно свободно и попытка записана,
// false — что действует ранее установленное окно (его срок не продлевается).
// Недоступность хранилища возвращается как ErrCooldownUnavailable.
type CooldownStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NotificationSender уведомляет покупателя о смене статуса.
// Вызывается после фиксации перехода; ошибка не откатывает сохранение.
type NotificationSender interface {
	NotifyShipped(ctx context.Context, order Order, comment string) error
}

// StatusEventPublisher публикует зафиксированные смены статуса во внешнюю
// шину событий. Как и уведомления, публикация best-effort.
type StatusEventPublisher interface {
	PublishStatusChanged(ctx context.Context, orderID string, oldStatus, newStatus OrderStatus) error
}
