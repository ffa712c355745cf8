package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(number int64) *domain.Order {
	req := &domain.CheckoutRequest{
		Customer: domain.CustomerInfo{
			Name:         "Asha Rao",
			Email:        "asha@example.com",
			Phone:        "9876543210",
			AddressLine1: "12 MG Road",
			AddressLine2: "Near the lake",
			City:         "Bengaluru",
			State:        "KA",
			PinCode:      "560001",
		},
		Items: []domain.CartItem{
			{ID: "flower-6", Title: "Flower kit", Price: decimal.RequireFromString("499.99"), Image: "/img/flower.png", Quantity: 2},
			{ID: "heart-1", Title: "Heart kit", Price: decimal.NewFromInt(600), Quantity: 1},
		},
		TotalPrice: decimal.RequireFromString("1599.98"),
	}
	createdAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return domain.NewOrder(number, req, createdAt, "upi://pay?pa=stringart@upi&tn="+domain.FormatOrderNumber(number))
}

func assertSameOrder(t *testing.T, want, got *domain.Order) {
	t.Helper()
	assert.Equal(t, want.Number, got.Number)
	assert.Equal(t, want.OrderNumber, got.OrderNumber)
	assert.Equal(t, want.Customer, got.Customer)
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, want.Items[i].Title, got.Items[i].Title)
		assert.Equal(t, want.Items[i].Image, got.Items[i].Image)
		assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
		assert.True(t, want.Items[i].Price.Equal(got.Items[i].Price), "item %d price", i)
	}
	assert.True(t, want.TotalPrice.Equal(got.TotalPrice), "total %s != %s", want.TotalPrice, got.TotalPrice)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", want.CreatedAt, got.CreatedAt)
	assert.Equal(t, want.PaymentLink, got.PaymentLink)
}

// Contract tests shared by every backend.

func testNextOrderNumberSequential(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, err := repo.NextOrderNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func testNextOrderNumberConcurrent(t *testing.T, repo OrderRepository) {
	const workers = 40
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.NextOrderNumber(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[n], "order number %d allocated twice", n)
			seen[n] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	for n := int64(1); n <= workers; n++ {
		assert.True(t, seen[n], "missing order number %d", n)
	}
}

func testCreateAndGet(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	order := newTestOrder(1)

	require.NoError(t, repo.CreateOrder(ctx, order))

	fetched, err := repo.GetOrderByNumber(ctx, 1)
	require.NoError(t, err)
	assertSameOrder(t, order, fetched)

	again, err := repo.GetOrderByNumber(ctx, 1)
	require.NoError(t, err)
	assertSameOrder(t, fetched, again)
}

func testCreateDuplicate(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	require.NoError(t, repo.CreateOrder(ctx, newTestOrder(7)))

	err := repo.CreateOrder(ctx, newTestOrder(7))
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func testGetNotFound(t *testing.T, repo OrderRepository) {
	_, err := repo.GetOrderByNumber(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func testListOrders(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	for n := int64(1); n <= 3; n++ {
		require.NoError(t, repo.CreateOrder(ctx, newTestOrder(n)))
	}

	all, err := repo.ListOrders(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].Number, all[1].Number, all[2].Number})

	recent, err := repo.ListOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "003", recent[0].OrderNumber)
	assert.Equal(t, "002", recent[1].OrderNumber)
}
