package domain

import "time"

// StatusChange — запись журнала смен статуса заказа.
type StatusChange struct {
	ID        string
	OrderID   string
	OldStatus OrderStatus
	NewStatus OrderStatus
	CreatedAt time.Time
}
