package domain

import (
	"strings"
	"time"
)

// OrderState описывает крупную фазу жизненного цикла заказа.
// Одному состоянию соответствует несколько детальных статусов.
type OrderState string

const (
	// OrderStateNew — заказ создан, оплата ещё не началась.
	OrderStateNew OrderState = "new"
	// OrderStateProcessing — заказ в обработке (сборка, отгрузка).
	OrderStateProcessing OrderState = "processing"
	// OrderStatePaymentReview — платёж на ручной проверке.
	OrderStatePaymentReview OrderState = "payment_review"
	// OrderStateComplete — заказ полностью выполнен.
	OrderStateComplete OrderState = "complete"
	// OrderStateClosed — заказ закрыт (возврат/кредит-мемо).
	OrderStateClosed OrderState = "closed"
	// OrderStateCanceled — заказ отменён.
	OrderStateCanceled OrderState = "canceled"
	// OrderStateHolded — заказ приостановлен оператором.
	OrderStateHolded OrderState = "holded"
)

// OrderStatus — детальный, видимый пользователю статус заказа.
// Набор статусов расширяется конфигурацией магазина, поэтому значения
// нормализуются к нижнему регистру при сравнении.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusPendingPayment     OrderStatus = "pending_payment"
	OrderStatusProcessing         OrderStatus = "processing"
	OrderStatusPendingFulfillment OrderStatus = "pending_fulfillment"
	OrderStatusShipped            OrderStatus = "shipped"
	OrderStatusComplete           OrderStatus = "complete"
	OrderStatusClosed             OrderStatus = "closed"
	OrderStatusCanceled           OrderStatus = "canceled"
	OrderStatusHolded             OrderStatus = "holded"
	OrderStatusPaymentReview      OrderStatus = "payment_review"
	OrderStatusFraud              OrderStatus = "fraud"
)

// NormalizeStatus приводит статус к каноничному виду для сравнения.
func NormalizeStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// Order агрегирует атрибуты заказа, которыми управляет сервис смены статусов.
// Полная модель заказа принадлежит внешней OMS; здесь хранится только то,
// что нужно для принятия решения и сохранения результата.
type Order struct {
	// ID — инкрементный идентификатор заказа (числовой токен).
	ID string
	// StoreID — магазин, в котором размещён заказ.
	StoreID string
	// CustomerEmail нужен для уведомления покупателя при отгрузке.
	CustomerEmail string
	State         OrderState
	Status        OrderStatus
	// TotalDueMinor — неоплаченный остаток в минимальных денежных единицах.
	TotalDueMinor int64
	// HasShipments — по заказу создана хотя бы одна отгрузка.
	HasShipments bool
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanHold сообщает, допускает ли текущее состояние постановку на hold.
// Ложное значение означает, что заказ уже заблокирован или находится
// в финальном состоянии.
func (o Order) CanHold() bool {
	switch o.State {
	case OrderStateHolded, OrderStateComplete, OrderStateClosed,
		OrderStateCanceled, OrderStatePaymentReview:
		return false
	default:
		return true
	}
}

// Snapshot возвращает read-only срез атрибутов для одной оценки перехода.
func (o Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		OrderID:       o.ID,
		StoreID:       o.StoreID,
		State:         o.State,
		Status:        NormalizeStatus(string(o.Status)),
		TotalDueMinor: o.TotalDueMinor,
		HasShipments:  o.HasShipments,
		IsHoldable:    o.CanHold(),
	}
}

// OrderSnapshot — неизменяемый срез заказа на момент оценки перехода.
// Живёт в пределах одного вызова валидатора.
type OrderSnapshot struct {
	OrderID       string
	StoreID       string
	State         OrderState
	Status        OrderStatus
	TotalDueMinor int64
	HasShipments  bool
	IsHoldable    bool
}

// StateStatuses — одна запись карты "состояние → статусы".
type StateStatuses struct {
	State    OrderState
	Statuses []OrderStatus
}

// StatusStateMap — упорядоченная карта соответствия статусов состояниям.
// Карта принадлежит внешней системе и передаётся на каждую оценку;
// валидатор её не кэширует. В корректной карте каждый статус входит
// ровно в одно состояние.
type StatusStateMap []StateStatuses

// Resolve ищет состояние, которому принадлежит статус (точное совпадение).
// Возвращает false, если статус не найден ни в одном состоянии.
func (m StatusStateMap) Resolve(status OrderStatus) (OrderState, bool) {
	for _, entry := range m {
		for _, candidate := range entry.Statuses {
			if candidate == status {
				return entry.State, true
			}
		}
	}
	return "", false
}

// DefaultStateMap воспроизводит стандартную группировку статусов по
// состояниям. Используется, когда внешняя система не передала свою карту.
func DefaultStateMap() StatusStateMap {
	return StatusStateMap{
		{State: OrderStateNew, Statuses: []OrderStatus{OrderStatusPending, OrderStatusPendingPayment}},
		{State: OrderStateProcessing, Statuses: []OrderStatus{OrderStatusProcessing, OrderStatusPendingFulfillment, OrderStatusShipped}},
		{State: OrderStatePaymentReview, Statuses: []OrderStatus{OrderStatusPaymentReview, OrderStatusFraud}},
		{State: OrderStateComplete, Statuses: []OrderStatus{OrderStatusComplete}},
		{State: OrderStateClosed, Statuses: []OrderStatus{OrderStatusClosed}},
		{State: OrderStateCanceled, Statuses: []OrderStatus{OrderStatusCanceled}},
		{State: OrderStateHolded, Statuses: []OrderStatus{OrderStatusHolded}},
	}
}
