package rest

import (
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

// UpdateStatusRequest — тело запроса на смену статуса заказа.
// Имена полей повторяют контракт внешнего API магазина.
type UpdateStatusRequest struct {
	OrderIncrementID string `json:"order_increment_id"`
	NewOrderStatus   string `json:"new_order_status"`
}

// StatusEnvelope — единица ответа API: исход и человекочитаемое сообщение.
// Контракт отдаёт массив из одного элемента.
type StatusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const statusSuccess = "success"

// envelope упаковывает исход в массив-контракт внешнего API.
func envelope(status, message string) []StatusEnvelope {
	return []StatusEnvelope{{Status: status, Message: message}}
}

// StatusChangeResponse — одна запись журнала смен статуса.
type StatusChangeResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	CreatedAt string `json:"created_at"`
}

func mapChanges(changes []domain.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, len(changes))
	for i, c := range changes {
		out[i] = StatusChangeResponse{
			ID:        c.ID,
			OrderID:   c.OrderID,
			OldStatus: string(c.OldStatus),
			NewStatus: string(c.NewStatus),
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}
