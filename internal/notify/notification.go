package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeNewOrder    Type = "new_order"
	TypeOrderStatus Type = "order_status"
	TypeLowStock    Type = "low_stock"
)

// Notification is process-local feed state; it is never persisted. The ID is
// synthetic and exists only for list identity — deduplication keys on OrderID.
type Notification struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrderHead is the minimal order projection the feed needs.
type OrderHead struct {
	ID          uuid.UUID
	OrderNumber string
	Total       decimal.Decimal
	CreatedAt   time.Time
}

// Source is the poll side of the order-arrival signal.
type Source interface {
	CountOrders(ctx context.Context) (int64, error)
	// RecentOrders returns the newest orders first.
	RecentOrders(ctx context.Context, limit int32) ([]OrderHead, error)
}

// Alerter receives each materialized notification for transient side effects
// (audible cue, toast). Implementations must not block.
type Alerter interface {
	Alert(n Notification, sound bool)
}

func formatNewOrderMessage(head OrderHead) string {
	return fmt.Sprintf("New order %s received (%s KWD)", head.OrderNumber, head.Total.StringFixed(3))
}
