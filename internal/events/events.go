// Package events publishes order lifecycle events for downstream consumers
// such as the invoice pipeline.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// OrderPlaced is emitted once per committed order.
type OrderPlaced struct {
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Discounts   []string        `json:"discounts"`
	PlacedAt    time.Time       `json:"placedAt"`
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for the comma separated broker list.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

type kafkaPublisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher publishes events as JSON messages keyed by order number,
// so all events of one order land on the same partition.
func NewKafkaPublisher(writer MessageWriter, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	if event.Discounts == nil {
		event.Discounts = []string{}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("OrderPlaced")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("order_number", event.OrderNumber).Msg("Order event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher discards every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (noopPublisher) Close() error { return nil }
