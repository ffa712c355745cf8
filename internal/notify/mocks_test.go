package notify

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type MockSender struct {
	mu      sync.Mutex
	Sent    []domain.Order
	Err     error
	Started chan string   // receives the order number when Send begins, if set
	Release chan struct{} // Send waits on this when set
}

func (m *MockSender) Send(ctx context.Context, order domain.Order) error {
	if m.Started != nil {
		m.Started <- order.OrderNumber
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, order)
	return nil
}

func (m *MockSender) SentNumbers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Sent))
	for i, o := range m.Sent {
		out[i] = o.OrderNumber
	}
	return out
}

type MockWriter struct {
	mu       sync.Mutex
	Messages []kafka.Message
	Err      error
	Calls    int
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockWriter) Close() error { return nil }

// MockReader fails with each of Errs, replays Messages, then reports io.EOF.
type MockReader struct {
	Errs     []error
	Messages []kafka.Message
	Reads    int
}

func (m *MockReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	m.Reads++
	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		return kafka.Message{}, err
	}
	if len(m.Messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := m.Messages[0]
	m.Messages = m.Messages[1:]
	return msg, nil
}

func (m *MockReader) Close() error { return nil }

func testOrder(number int64) domain.Order {
	req := &domain.CheckoutRequest{
		Customer: domain.CustomerInfo{
			Name:         "Asha Rao",
			Email:        "asha@example.com",
			Phone:        "9876543210",
			AddressLine1: "12 MG Road",
			City:         "Bengaluru",
			State:        "KA",
			PinCode:      "560001",
		},
		Items: []domain.CartItem{
			{ID: "flower-6", Title: "Flower kit", Price: decimal.NewFromInt(500), Quantity: 2},
		},
		TotalPrice: decimal.NewFromInt(1000),
	}
	order := domain.NewOrder(number, req, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		"upi://pay?pa=stringart@upi&pn=StringArt&am=1000&tn="+domain.FormatOrderNumber(number))
	return *order
}
