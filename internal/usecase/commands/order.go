package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/cart"
	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/domain/order"
	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/pubsub"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/queries"
	"storefront-backend/internal/usecase/shared"
)

// orderNumberAttempts bounds the regenerate-and-retry loop on a same-day
// order number collision.
const orderNumberAttempts = 3

type CreateOrderParams struct {
	Customer      order.Customer
	Lines         []cart.Line
	Shipping      decimal.Decimal
	PaymentMethod string
	CouponCode    *string
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*queries.OrderView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*queries.OrderView, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, target string) (*queries.OrderView, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderCommandsImpl struct {
	orderRepo    OrderRepository
	couponRepo   CouponRepository
	orderQueries queries.OrderQueries
	publisher    OrderEventPublisher
	tx           shared.TxManager
	clock        clock.Clock
}

func NewOrderCommands(
	orderRepo OrderRepository,
	couponRepo CouponRepository,
	orderQueries queries.OrderQueries,
	publisher OrderEventPublisher,
	tx shared.TxManager,
	clock clock.Clock,
) OrderCommands {
	return &orderCommandsImpl{
		orderRepo:    orderRepo,
		couponRepo:   couponRepo,
		orderQueries: orderQueries,
		publisher:    publisher,
		tx:           tx,
		clock:        clock,
	}
}

func (u *orderCommandsImpl) CreateOrder(ctx context.Context, params CreateOrderParams) (*queries.OrderView, error) {
	now := u.clock.Now()
	subtotal := cart.Subtotal(params.Lines)

	discount := decimal.Zero
	var couponEntity *coupon.Coupon
	var couponCode *string
	if params.CouponCode != nil {
		var err error
		couponEntity, err = u.resolveCoupon(ctx, *params.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = couponEntity.DiscountAmount(subtotal)
		// A fixed discount larger than the subtotal collapses to the subtotal;
		// the total never goes negative.
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		code := couponEntity.Code().String()
		couponCode = &code
	}

	orderEntity, err := order.NewOrder(order.Draft{
		Customer:      params.Customer,
		Items:         cart.Items(params.Lines),
		Discount:      discount,
		Shipping:      params.Shipping,
		PaymentMethod: order.PaymentMethod(params.PaymentMethod),
		CouponCode:    couponCode,
	}, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidOrder)
	}

	// A same-day order number collision is rare but surfaces as a unique
	// violation; regenerate the fragment and retry instead of failing the
	// whole checkout.
	for attempt := 0; ; attempt++ {
		err := u.persistOrder(ctx, orderEntity, couponEntity)
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindDuplicateKey) && attempt < orderNumberAttempts-1 {
			orderEntity.RegenerateOrderNumber()
			continue
		}
		return nil, err
	}

	u.publisher.PublishOrderCreated(ctx, pubsub.OrderEvent{
		OrderID:     orderEntity.ID(),
		OrderNumber: orderEntity.OrderNumber(),
		Total:       orderEntity.Total(),
		CreatedAt:   orderEntity.CreatedAt(),
	})

	view, err := u.orderQueries.GetByID(ctx, orderEntity.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *orderCommandsImpl) resolveCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*coupon.Coupon, error) {
	couponEntity, err := u.couponRepo.FindActiveByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := couponEntity.Validate(subtotal, u.clock.Now()); err != nil {
		switch {
		case errors.Is(err, coupon.ErrCouponExpired):
			return nil, errs.ErrCouponExpired
		case errors.Is(err, coupon.ErrCouponExhausted):
			return nil, errs.ErrCouponExhausted
		default:
			// BelowMinimumError carries the configured minimum in its message.
			return nil, err
		}
	}
	return couponEntity, nil
}

// persistOrder writes the order and consumes one coupon use in a single
// transaction. The conditional usage UPDATE closes the validate-then-consume
// race: a coupon exhausted between the two steps fails the whole checkout.
func (u *orderCommandsImpl) persistOrder(ctx context.Context, o *order.Order, c *coupon.Coupon) error {
	return u.tx.RunInTx(ctx, func(tx repository.DBTX) error {
		if err := u.orderRepo.Create(ctx, tx, o); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if c != nil {
			if err := u.couponRepo.ConsumeUsage(ctx, tx, c.ID()); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.ErrCouponExhausted
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func (u *orderCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*queries.OrderView, error) {
	targetStatus := order.Status(target)
	if !targetStatus.IsValid() {
		return nil, errs.ErrInvalidTransition
	}

	orderEntity, err := u.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := orderEntity.Status()
	if err := orderEntity.ChangeStatus(targetStatus, u.clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	// Compare-and-swap on the previous status so a concurrent operator's
	// update cannot be silently overwritten.
	if err := u.orderRepo.UpdateStatus(ctx, id, from, targetStatus, orderEntity.UpdatedAt()); err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, errs.ErrOrderNotFound
		case infra.IsKind(err, infra.KindConflict):
			return nil, errs.ErrOrderConflict
		default:
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	view, err := u.orderQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *orderCommandsImpl) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, target string) (*queries.OrderView, error) {
	targetStatus := order.PaymentStatus(target)
	if !targetStatus.IsValid() {
		return nil, errs.Mark(order.ErrInvalidPaymentStatus, errs.ErrInvalidOrder)
	}

	orderEntity, err := u.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := orderEntity.ChangePaymentStatus(targetStatus, u.clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidOrder)
	}

	if err := u.orderRepo.UpdatePaymentStatus(ctx, id, targetStatus, orderEntity.UpdatedAt()); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view, err := u.orderQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *orderCommandsImpl) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := u.orderRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrOrderNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *orderCommandsImpl) findOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	orderEntity, err := u.orderRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return orderEntity, nil
}
