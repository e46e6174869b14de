package rest

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/service/status"
)

// Handler обслуживает HTTP-эндпоинты смены статуса заказа.
type Handler struct {
	service *status.Service
	logger  *log.Entry
}

func NewHandler(service *status.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "rest-handler")
	}
	return &Handler{service: service, logger: logger}
}

// UpdateOrderStatus принимает запрос на смену статуса и отдаёт исход
// в формате массива {status, message}.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope(string(domain.RejectionInvalidInput), "Invalid request body."))
		return
	}

	result := h.service.UpdateOrderStatus(r.Context(), domain.TransitionRequest{
		OrderID:         req.OrderIncrementID,
		RequestedStatus: req.NewOrderStatus,
	}, clientAddr(r))

	if result.OK {
		writeJSON(w, http.StatusOK, envelope(statusSuccess, result.Message))
		return
	}

	writeJSON(w, httpStatusFor(result.Kind), envelope(string(result.Kind), result.Message))
}

// ListStatusChanges отдаёт журнал смен статуса заказа.
func (h *Handler) ListStatusChanges(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	changes, err := h.service.ListStatusChanges(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderIDRequired):
			writeJSON(w, http.StatusBadRequest, envelope(string(domain.RejectionMissingFields), "Please provide valid order id."))
		case errors.Is(err, domain.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, envelope(string(domain.RejectionNotFound), "Order does not exist with order id "+orderID+"."))
		default:
			h.logger.WithError(err).WithField("order_id", orderID).Error("failed to list status changes")
			writeJSON(w, http.StatusInternalServerError, envelope(string(domain.RejectionUnexpected), "Failed to load status changes, please try again later."))
		}
		return
	}

	writeJSON(w, http.StatusOK, mapChanges(changes))
}

// httpStatusFor переводит причину отказа в HTTP-код. Бизнес-отказы
// валидатора отдаются как 422: запрос корректен, переход запрещён.
func httpStatusFor(kind domain.RejectionKind) int {
	switch kind {
	case domain.RejectionFeatureDisabled:
		return http.StatusForbidden
	case domain.RejectionMissingFields, domain.RejectionInvalidInput:
		return http.StatusBadRequest
	case domain.RejectionNotFound:
		return http.StatusNotFound
	case domain.RejectionTooManyRequests:
		return http.StatusTooManyRequests
	case domain.RejectionServiceUnavailable:
		return http.StatusServiceUnavailable
	case domain.RejectionNoOpTransition, domain.RejectionTerminalState,
		domain.RejectionOnHold, domain.RejectionPaymentDue, domain.RejectionNoShipment:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// clientAddr извлекает адрес клиента для ключа cooldown: первый адрес
// из X-Forwarded-For, иначе адрес соединения без порта.
func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
