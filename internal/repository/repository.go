package repository

import (
	"context"
	"errors"

	"github.com/anandology/stringart.in/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order number already taken")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the durable order store. NextOrderNumber is committed on
// its own: a number it returns is never returned again, even when the order
// that was meant to use it is never created.
type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByNumber(ctx context.Context, number int64) (*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	RunMigrations(*Credentials) error
	Close() error
}
