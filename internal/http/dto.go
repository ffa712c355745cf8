package http

import (
	"time"

	"github.com/anandology/stringart.in/internal/domain"
)

type CheckoutResponseDTO struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber,omitempty"`
	QRCodeURL   string `json:"qrCodeUrl,omitempty"`
	PaymentLink string `json:"paymentLink,omitempty"`
}

type CustomerDTO struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pinCode"`
}

type OrderItemDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

type OrderResponseDTO struct {
	OrderNumber string         `json:"orderNumber"`
	Status      string         `json:"status"`
	Customer    CustomerDTO    `json:"customer"`
	Items       []OrderItemDTO `json:"items"`
	TotalPrice  float64        `json:"totalPrice"`
	PaymentLink string         `json:"paymentLink"`
	CreatedAt   string         `json:"createdAt"`
}

type HealthResponseDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price.InexactFloat64(),
			Image:    item.Image,
			Quantity: item.Quantity,
		})
	}

	c := o.Customer
	return OrderResponseDTO{
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Customer: CustomerDTO{
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			AddressLine1: c.AddressLine1,
			AddressLine2: c.AddressLine2,
			City:         c.City,
			State:        c.State,
			PinCode:      c.PinCode,
		},
		Items:       items,
		TotalPrice:  o.TotalPrice.InexactFloat64(),
		PaymentLink: o.PaymentLink,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
