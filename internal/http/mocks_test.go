package http

import (
	"context"

	"github.com/anandology/stringart.in/internal/domain"
)

type MockOrderService struct {
	Result   *domain.CheckoutResult
	Order    *domain.Order
	Err      error
	Received *domain.CheckoutRequest
	Lookup   string
}

func (m *MockOrderService) Checkout(_ context.Context, req *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	m.Received = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockOrderService) GetOrder(_ context.Context, orderNumber string) (*domain.Order, error) {
	m.Lookup = orderNumber
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}
