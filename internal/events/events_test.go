package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	writer := new(MockWriter)
	publisher := NewKafkaPublisher(writer, zerolog.Nop())

	event := OrderPlaced{
		OrderNumber: "SHB0001",
		Total:       decimal.RequireFromString("195.00"),
		Currency:    "EUR",
		Discounts:   []string{"WELCOME10"},
		PlacedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "SHB0001" {
			return false
		}
		var decoded OrderPlaced
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.Total.Equal(event.Total) && decoded.Discounts[0] == "WELCOME10"
	})).Return(nil)

	err := publisher.PublishOrderPlaced(context.Background(), event)

	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestKafkaPublisher_NilDiscountsEncodeAsEmptyList(t *testing.T) {
	writer := new(MockWriter)
	publisher := NewKafkaPublisher(writer, zerolog.Nop())

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		var raw map[string]any
		_ = json.Unmarshal(msgs[0].Value, &raw)
		list, ok := raw["discounts"].([]any)
		return ok && len(list) == 0
	})).Return(nil)

	err := publisher.PublishOrderPlaced(context.Background(), OrderPlaced{OrderNumber: "SHA0001"})

	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := new(MockWriter)
	publisher := NewKafkaPublisher(writer, zerolog.Nop())
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := publisher.PublishOrderPlaced(context.Background(), OrderPlaced{OrderNumber: "SHA0001"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish order event")
}

func TestKafkaPublisher_Close(t *testing.T) {
	writer := new(MockWriter)
	writer.On("Close").Return(nil)

	require.NoError(t, NewKafkaPublisher(writer, zerolog.Nop()).Close())
	writer.AssertExpectations(t)
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher()

	assert.NoError(t, publisher.PublishOrderPlaced(context.Background(), OrderPlaced{}))
	assert.NoError(t, publisher.Close())
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter("k1:9092,k2:9092", "orders")

	assert.Equal(t, "orders", writer.Topic)
	assert.NotNil(t, writer.Addr)
	assert.True(t, writer.AllowAutoTopicCreation)
}
