package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type CheckoutCompleted struct {
	SessionID    string            `json:"session_id"`
	RestaurantID int64             `json:"restaurant_id"`
	CartID       int64             `json:"cart_id"`
	Items        []domain.CartItem `json:"items"`
	TotalAmount  int64             `json:"total_amount"`
	Fulfillment  string            `json:"fulfillment_method"`
	CompletedAt  time.Time         `json:"completed_at"`
}

type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewPublisher(topic string, logger *zap.Logger, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) PublishCheckoutCompleted(ctx context.Context, event CheckoutCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.CartID, 10)), // cart id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("checkout")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish checkout event: %w", err)
	}

	p.logger.Info("checkout event published",
		zap.String("session_id", event.SessionID),
		zap.Int64("cart_id", event.CartID))
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("error closing writer", zap.Error(err))
	}
}
