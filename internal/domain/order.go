package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Orders only ever start as pending; later transitions belong to fulfilment.
const OrderStatusPending OrderStatus = "pending"

type Order struct {
	Number      int64           `json:"number"`
	OrderNumber string          `json:"orderNumber"`
	Customer    CustomerInfo    `json:"customer"`
	Items       []CartItem      `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	PaymentLink string          `json:"paymentLink"`
}

// NewOrder builds a pending order from a validated request. Customer and
// items are copied so the order shares no memory with req.
func NewOrder(number int64, req *CheckoutRequest, createdAt time.Time, paymentLink string) *Order {
	items := make([]CartItem, len(req.Items))
	copy(items, req.Items)

	return &Order{
		Number:      number,
		OrderNumber: FormatOrderNumber(number),
		Customer:    req.Customer,
		Items:       items,
		TotalPrice:  req.TotalPrice,
		Status:      OrderStatusPending,
		CreatedAt:   createdAt,
		PaymentLink: paymentLink,
	}
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() Order {
	c := *o
	c.Items = make([]CartItem, len(o.Items))
	copy(c.Items, o.Items)
	return c
}
