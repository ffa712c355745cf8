package repository

import (
	"encoding/json"
	"fmt"

	"github.com/anandology/stringart.in/internal/domain"
)

const orderColumns = `number, order_number, customer, items, total_price, status, created_at, payment_link`

type rowScanner interface {
	Scan(dest ...any) error
}

// orderArgs returns insert arguments in orderColumns order.
func orderArgs(order *domain.Order) ([]any, error) {
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer: %w", err)
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}
	return []any{
		order.Number,
		order.OrderNumber,
		string(customerJSON),
		string(itemsJSON),
		order.TotalPrice,
		string(order.Status),
		order.CreatedAt.UTC(),
		order.PaymentLink,
	}, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order        domain.Order
		customerJSON []byte
		itemsJSON    []byte
		status       string
	)
	if err := row.Scan(
		&order.Number,
		&order.OrderNumber,
		&customerJSON,
		&itemsJSON,
		&order.TotalPrice,
		&status,
		&order.CreatedAt,
		&order.PaymentLink,
	); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)

	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func scanOrders(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
