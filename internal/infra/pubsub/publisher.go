package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// OrderEvent is the wire shape of an order-insert event on the push channel.
type OrderEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderPublisher broadcasts order inserts to feed subscribers. Publishing is
// best effort: the poll path covers any event lost here.
type OrderPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewOrderPublisher(client *redis.Client, channel string, logger *slog.Logger) *OrderPublisher {
	return &OrderPublisher{client: client, channel: channel, logger: logger}
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal order event", "order_id", event.OrderID, "error", err)
		return
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("failed to publish order event, poll will pick it up",
			"order_id", event.OrderID, "error", err)
	}
}
