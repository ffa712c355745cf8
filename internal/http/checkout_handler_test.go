package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/service"
	"github.com/anandology/stringart.in/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutBody = `{
	"customer": {
		"name": "Asha Rao",
		"email": "asha@example.com",
		"phone": "9876543210",
		"addressLine1": "12 MG Road",
		"city": "Bengaluru",
		"state": "KA",
		"pinCode": "560001"
	},
	"items": [{"id": "flower-6", "title": "Flower kit", "price": 499.99, "quantity": 2}],
	"totalPrice": 999.98
}`

func postCheckout(h *CheckoutHandler, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	h.Checkout(recorder, request)
	return recorder
}

func TestCheckout_Success(t *testing.T) {
	link := "upi://pay?pa=stringart@upi&pn=StringArt&am=999.98&tn=001"
	mock := &MockOrderService{Result: &domain.CheckoutResult{OrderNumber: "001", PaymentLink: link, QRCodeURL: link}}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := postCheckout(handler, checkoutBody)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "001", resp["orderNumber"])
	assert.Equal(t, link, resp["paymentLink"])
	assert.Equal(t, link, resp["qrCodeUrl"])

	require.NotNil(t, mock.Received)
	assert.Equal(t, "999.98", mock.Received.TotalPrice.String(), "amounts decode exactly")
	assert.Equal(t, "499.99", mock.Received.Items[0].Price.String())
	assert.Equal(t, "asha@example.com", mock.Received.Customer.Email)
}

func TestCheckout_ValidationError(t *testing.T) {
	mock := &MockOrderService{Err: &validation.Error{Violations: []validation.Violation{
		{Field: "customer.phone", Message: "phone number must be at least 10 digits"},
		{Field: "items", Message: "cart cannot be empty"},
	}}}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := postCheckout(handler, checkoutBody)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp struct {
		Success bool                   `json:"success"`
		Error   string                 `json:"error"`
		Code    string                 `json:"code"`
		Details []validation.Violation `json:"details"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "phone number must be at least 10 digits; cart cannot be empty", resp.Error)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "customer.phone", resp.Details[0].Field)
}

func TestCheckout_StorageErrorIsGeneric(t *testing.T) {
	mock := &MockOrderService{Err: fmt.Errorf("%w: %w", service.ErrStorage, errors.New("pq: password authentication failed"))}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := postCheckout(handler, checkoutBody)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, genericCheckoutError)
	assert.NotContains(t, body, "pq:")
	assert.Contains(t, body, `"success":false`)
}

func TestCheckout_InvalidJSON(t *testing.T) {
	mock := &MockOrderService{}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	for _, body := range []string{"", "{not json", `{"items": "nope"}`, `{"totalPrice": "abc"}`} {
		recorder := postCheckout(handler, body)

		assert.Equal(t, http.StatusBadRequest, recorder.Code, "body %q", body)
		assert.Contains(t, recorder.Body.String(), "invalid_request")
	}
	assert.Nil(t, mock.Received, "service is not called")
}

func TestCheckout_BodyTooLarge(t *testing.T) {
	handler := NewCheckoutHandler(&MockOrderService{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	request.Body = http.MaxBytesReader(recorder, request.Body, 16)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
}
