package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anandology/stringart.in/internal/service"
	"github.com/anandology/stringart.in/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	svc     OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// GET /orders/{orderNumber}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.svc.GetOrder(ctx, orderNumber)
	if errors.Is(err, service.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		logger.FromContext(ctx).Error("get order failed", zap.String("order_number", orderNumber), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}
