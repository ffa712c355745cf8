package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrders(t *testing.T) {
	req := &domain.CheckoutRequest{
		Customer: domain.CustomerInfo{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		Items: []domain.CartItem{
			{ID: "flower-6", Title: "Flower kit", Price: decimal.NewFromInt(500), Quantity: 2},
			{ID: "heart-1", Title: "Heart kit", Price: decimal.NewFromInt(250), Quantity: 1},
		},
		TotalPrice: decimal.NewFromInt(1250),
	}
	order := domain.NewOrder(12, req, time.Now(), "upi://pay")

	var buf bytes.Buffer
	require.NoError(t, renderOrders(&buf, []*domain.Order{order}))

	out := buf.String()
	assert.Contains(t, out, "012")
	assert.Contains(t, out, "1250.00")
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "Flower kit x2, Heart kit x1")
	assert.Contains(t, out, "pending")
}

func TestRenderOrders_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderOrders(&buf, nil))
	assert.Equal(t, "No orders found.\n", buf.String())
}
