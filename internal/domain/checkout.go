package domain

import "github.com/shopspring/decimal"

type CustomerInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"min=10"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pinCode" validate:"min=6"`
}

type CartItem struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price" validate:"positive"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

// Subtotal is price × quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CheckoutRequest struct {
	Customer   CustomerInfo    `json:"customer"`
	Items      []CartItem      `json:"items" validate:"min=1,dive"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"positive"`
}

// ItemsTotal sums the subtotals of all items.
func (r *CheckoutRequest) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type CheckoutResult struct {
	OrderNumber string
	PaymentLink string
	QRCodeURL   string
}
