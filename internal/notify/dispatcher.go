package notify

import (
	"context"
	"sync"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/metrics"
	"go.uber.org/zap"
)

type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher is a bounded queue drained by a fixed pool of workers.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Order
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	d := &Dispatcher{
		sender:  sender,
		timeout: cfg.Timeout,
		log:     log,
		metrics: m,
		queue:   make(chan domain.Order, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Notify enqueues the order, dropping it when the queue is full or the
// dispatcher is shut down.
func (d *Dispatcher) Notify(order domain.Order) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(order, "dispatcher closed")
		return
	}

	select {
	case d.queue <- order:
	default:
		d.drop(order, "queue full")
	}
}

// Shutdown stops accepting orders and waits for queued ones to be sent or
// for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for order := range d.queue {
		d.deliver(order)
	}
}

func (d *Dispatcher) deliver(order domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, order); err != nil {
		nerr := &NotificationError{OrderNumber: order.OrderNumber, Err: err}
		d.log.Warn("notification failed", zap.String("order_number", order.OrderNumber), zap.Error(nerr))
		d.metrics.NotificationOutcome(metrics.NotificationFailed)
		return
	}
	d.metrics.NotificationOutcome(metrics.NotificationSent)
}

func (d *Dispatcher) drop(order domain.Order, reason string) {
	d.log.Warn("notification dropped",
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", reason))
	d.metrics.NotificationOutcome(metrics.NotificationDropped)
}
