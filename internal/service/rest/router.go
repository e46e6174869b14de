package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты API смены статуса заказа.
// Путь /V1 повторяет версионирование внешнего API магазина.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/V1/orders", func(r chi.Router) {
		r.Post("/status", handler.UpdateOrderStatus)
		r.Get("/{id}/status-changes", handler.ListStatusChanges)
	})
	return r
}
