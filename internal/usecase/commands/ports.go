package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/domain/order"
	"storefront-backend/internal/infra/pubsub"
	"storefront-backend/internal/infra/repository"
)

// Write-side ports. Declared here so usecases depend on behavior, not on the
// concrete pgx repositories.

type OrderRepository interface {
	Create(ctx context.Context, tx repository.DBTX, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status, updatedAt time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to order.PaymentStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CouponRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	Create(ctx context.Context, c *coupon.Coupon) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, p repository.CouponUpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error
	ConsumeUsage(ctx context.Context, tx repository.DBTX, id uuid.UUID) error
}

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*repository.AdminRecord, error)
}

type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event pubsub.OrderEvent)
}
