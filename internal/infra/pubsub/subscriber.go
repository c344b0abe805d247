package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"storefront-backend/internal/notify"
)

// OrderSubscriber receives order-insert events from the push channel and
// forwards them to the notification engine. Decode failures are logged and
// skipped so one malformed payload cannot stall the stream.
type OrderSubscriber struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	events  chan notify.OrderHead
}

func NewOrderSubscriber(client *redis.Client, channel string, logger *slog.Logger) *OrderSubscriber {
	return &OrderSubscriber{
		client:  client,
		channel: channel,
		logger:  logger,
		events:  make(chan notify.OrderHead, 64),
	}
}

// Events yields decoded order heads. The channel is closed when Run returns.
func (s *OrderSubscriber) Events() <-chan notify.OrderHead {
	return s.events
}

// Run subscribes and forwards events until ctx is cancelled. The go-redis
// PubSub reconnects on its own, so a dropped connection degrades the feed to
// poll-only until the subscription is re-established.
func (s *OrderSubscriber) Run(ctx context.Context) {
	defer close(s.events)

	ps := s.client.Subscribe(ctx, s.channel)
	defer ps.Close()

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("discarding malformed order event", "error", err)
				continue
			}
			head := notify.OrderHead{
				ID:          event.OrderID,
				OrderNumber: event.OrderNumber,
				Total:       event.Total,
				CreatedAt:   event.CreatedAt,
			}
			select {
			case s.events <- head:
			case <-ctx.Done():
				return
			}
		}
	}
}
