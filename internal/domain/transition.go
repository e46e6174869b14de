package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TransitionRequest — запрос на смену статуса, пришедший с внешнего API.
// Оба поля свободной формы; пробелы по краям отбрасываются до использования.
type TransitionRequest struct {
	OrderID         string
	RequestedStatus string
}

// Trimmed возвращает копию запроса с отброшенными пробелами по краям.
func (r TransitionRequest) Trimmed() TransitionRequest {
	return TransitionRequest{
		OrderID:         strings.TrimSpace(r.OrderID),
		RequestedStatus: strings.TrimSpace(r.RequestedStatus),
	}
}

// RejectionKind классифицирует причину отказа в смене статуса.
type RejectionKind string

const (
	// RejectionFeatureDisabled — функциональность выключена конфигурацией.
	RejectionFeatureDisabled RejectionKind = "feature_disabled"
	// RejectionInvalidInput — синтаксически некорректный идентификатор.
	RejectionInvalidInput RejectionKind = "invalid_input"
	// RejectionMissingFields — не передан orderId или целевой статус.
	RejectionMissingFields RejectionKind = "missing_fields"
	// RejectionNotFound — заказ не существует.
	RejectionNotFound RejectionKind = "not_found"
	// RejectionTooManyRequests — попытка попала в cooldown-окно.
	RejectionTooManyRequests RejectionKind = "too_many_requests"
	// RejectionNoOpTransition — целевой статус совпадает с текущим.
	RejectionNoOpTransition RejectionKind = "no_op_transition"
	// RejectionTerminalState — заказ завершён или отменён.
	RejectionTerminalState RejectionKind = "terminal_state"
	// RejectionOnHold — заказ заблокирован (hold недоступен).
	RejectionOnHold RejectionKind = "on_hold"
	// RejectionPaymentDue — нельзя завершить заказ с неоплаченным остатком.
	RejectionPaymentDue RejectionKind = "payment_due"
	// RejectionNoShipment — нельзя отметить отгрузку без созданной отгрузки.
	RejectionNoShipment RejectionKind = "no_shipment"
	// RejectionServiceUnavailable — отказ инфраструктуры (cooldown-хранилище).
	RejectionServiceUnavailable RejectionKind = "service_unavailable"
	// RejectionUnexpected — любая прочая ошибка коллаборатора.
	RejectionUnexpected RejectionKind = "unexpected"
)

// TransitionOutcome — результат оценки перехода. Конструируется один раз
// и дальше не мутируется.
type TransitionOutcome struct {
	Approved       bool
	ResolvedState  OrderState
	ResolvedStatus OrderStatus
	Reason         RejectionKind
	Message        string
}

// Approve создаёт одобренный исход с вычисленным состоянием.
func Approve(state OrderState, status OrderStatus) TransitionOutcome {
	return TransitionOutcome{
		Approved:       true,
		ResolvedState:  state,
		ResolvedStatus: status,
	}
}

// Reject создаёт отказ с причиной и человекочитаемым сообщением.
func Reject(kind RejectionKind, message string) TransitionOutcome {
	return TransitionOutcome{Reason: kind, Message: message}
}

// terminalStatuses — статусы, после которых смена запрещена безусловно.
var terminalStatuses = map[OrderStatus]struct{}{
	OrderStatusComplete: {},
	OrderStatusCanceled: {},
}

// EvaluateTransition решает, допустим ли переход заказа в запрошенный статус.
// Чистая функция: никаких побочных эффектов, весь ввод передаётся явно.
//
// Проверки выполняются строго по порядку, первый отказ — окончательный:
// отсутствие полей, формат идентификатора, no-op, терминальные статусы,
// hold, неоплаченный остаток при complete, отсутствие отгрузки при shipped.
// Существование заказа проверяет вызывающая сторона до оценки (snapshot
// обязан соответствовать существующему заказу).
func EvaluateTransition(snap OrderSnapshot, req TransitionRequest, stateMap StatusStateMap) TransitionOutcome {
	req = req.Trimmed()

	if req.OrderID == "" || req.RequestedStatus == "" {
		return Reject(RejectionMissingFields, "Please provide valid order id and order status.")
	}

	if !ValidOrderID(req.OrderID) {
		return Reject(RejectionInvalidInput, "Invalid order id format, please provide a valid order id.")
	}

	requested := NormalizeStatus(req.RequestedStatus)

	if requested == snap.Status {
		return Reject(RejectionNoOpTransition, "Current order status and new order status are the same, please modify the status.")
	}

	if _, terminal := terminalStatuses[snap.Status]; terminal {
		return Reject(RejectionTerminalState, "Status of a completed or canceled order is not allowed to be changed.")
	}

	if !snap.IsHoldable {
		return Reject(RejectionOnHold, "Order is currently on hold, status change not allowed.")
	}

	if requested == OrderStatusComplete && snap.TotalDueMinor > 0 {
		return Reject(RejectionPaymentDue, "Order cannot be completed. Payment is still due.")
	}

	if requested == OrderStatusShipped && !snap.HasShipments {
		return Reject(RejectionNoShipment, "Order cannot be marked as shipped until a shipment is generated.")
	}

	// Разрешаем состояние по карте; промах оставляет текущее состояние.
	state, ok := stateMap.Resolve(requested)
	if !ok {
		state = snap.State
	}

	return Approve(state, requested)
}

// ValidOrderID принимает только положительные целочисленные токены:
// инкрементные идентификаторы заказов числовые.
func ValidOrderID(raw string) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return err == nil && id > 0
}

// String упрощает логирование исхода.
func (o TransitionOutcome) String() string {
	if o.Approved {
		return fmt.Sprintf("approved state=%s status=%s", o.ResolvedState, o.ResolvedStatus)
	}
	return fmt.Sprintf("rejected reason=%s", o.Reason)
}
