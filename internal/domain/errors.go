package domain

import "errors"

var (
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrOrderIDRequired — пустой идентификатор заказа после trim.
	ErrOrderIDRequired = errors.New("order_id is required")
	// ErrStatusRequired — пустой целевой статус после trim.
	ErrStatusRequired = errors.New("new status is required")
	// ErrCooldownKeyRequired — пустой ключ cooldown-записи.
	ErrCooldownKeyRequired = errors.New("cooldown key is required")
	// ErrCooldownUnavailable — хранилище cooldown-записей недоступно.
	// Вызывающая сторона обязана трактовать это как жёсткий отказ,
	// а не как разрешение пропустить rate limiting.
	ErrCooldownUnavailable = errors.New("cooldown storage unavailable")
	// ErrChangelogUnavailable — хранилище журнала изменений недоступно.
	ErrChangelogUnavailable = errors.New("changelog storage unavailable")
	// ErrNotificationFailed — отправка уведомления покупателю не удалась.
	// Уведомление best-effort: уже сохранённый статус не откатывается.
	ErrNotificationFailed = errors.New("customer notification failed")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
