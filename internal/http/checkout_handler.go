package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/validation"
	"github.com/anandology/stringart.in/pkg/logger"
	"go.uber.org/zap"
)

// OrderService is the part of service.CheckoutService the handlers use.
type OrderService interface {
	Checkout(ctx context.Context, req *domain.CheckoutRequest) (*domain.CheckoutResult, error)
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type CheckoutHandler struct {
	svc     OrderService
	timeout time.Duration
}

func NewCheckoutHandler(svc OrderService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// POST /checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.svc.Checkout(ctx, &req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   verr.Error(),
				Code:    "validation_failed",
				Details: verr.Violations,
			})
			return
		}
		logger.FromContext(ctx).Error("checkout failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", genericCheckoutError)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		Success:     true,
		OrderNumber: res.OrderNumber,
		QRCodeURL:   res.QRCodeURL,
		PaymentLink: res.PaymentLink,
	})
}
