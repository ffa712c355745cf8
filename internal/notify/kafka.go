package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	eventOrderCreated = "order_created"
	readRetryDelay    = time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaPublisher sends orders to a topic for the notifier process. Writes go
// through a circuit breaker so a dead broker fails fast.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *circuitbreaker.Breaker
}

func NewKafkaPublisher(brokers []string, topic string, breaker *circuitbreaker.Breaker) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, breaker: breaker}
}

func (p *KafkaPublisher) Send(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventOrderCreated)},
		},
	}

	return p.breaker.Do(func() error {
		return p.writer.WriteMessages(ctx, msg)
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Consumer reads order events and hands each to a Sender.
type Consumer struct {
	reader     messageReader
	sender     Sender
	log        *zap.Logger
	// retryDelay is the pause after a failed read; zero means readRetryDelay.
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, sender Sender, log *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, sender: sender, log: log, retryDelay: readRetryDelay}
}

// Run consumes until ctx is cancelled or the reader is closed. A failed read
// is retried after retryDelay.
func (c *Consumer) Run(ctx context.Context) {
	delay := c.retryDelay
	if delay <= 0 {
		delay = readRetryDelay
	}
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		err := c.processMessage(ctx)
		if errors.Is(err, io.EOF) {
			return
		}
		if err == nil {
			continue
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// processMessage returns only reader errors; everything after a successful
// read is logged.
func (c *Consumer) processMessage(ctx context.Context) error {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.log.Error("error reading message", zap.Error(err))
		return err
	}

	var order domain.Order
	if err := json.Unmarshal(m.Value, &order); err != nil {
		c.log.Error("error parsing order event", zap.Error(err), zap.ByteString("key", m.Key))
		return nil
	}

	if err := c.sender.Send(ctx, order); err != nil {
		nerr := &NotificationError{OrderNumber: order.OrderNumber, Err: err}
		c.log.Warn("notification failed", zap.Error(nerr))
		return nil
	}
	c.log.Info("notification sent", zap.String("order_number", order.OrderNumber))
	return nil
}
