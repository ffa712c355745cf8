package notify

import (
	"context"
	"fmt"

	"github.com/anandology/stringart.in/internal/domain"
)

// Notifier accepts a persisted order for out-of-band notification. Notify
// must not block the caller.
type Notifier interface {
	Notify(order domain.Order)
}

// Sender delivers one notification.
type Sender interface {
	Send(ctx context.Context, order domain.Order) error
}

// NotificationError is a failed delivery. It never reaches the customer.
type NotificationError struct {
	OrderNumber string
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify order %s: %v", e.OrderNumber, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
