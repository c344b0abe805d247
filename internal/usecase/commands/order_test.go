//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domain/cart"
	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/domain/order"
	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/pubsub"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"
)

type fakeTxManager struct {
	beginErr error
	runs     int
}

func (f *fakeTxManager) RunInTx(_ context.Context, fn func(tx repository.DBTX) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.runs++
	return fn(nil)
}

type fakeOrderRepo struct {
	created         []*order.Order
	createdNumbers  []string
	createErrs      []error
	byID            map[uuid.UUID]*order.Order
	updateStatusErr error
	updatePayErr    error
	deleteErr       error
}

func (f *fakeOrderRepo) Create(_ context.Context, _ repository.DBTX, o *order.Order) error {
	f.createdNumbers = append(f.createdNumbers, o.OrderNumber())
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return o, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _, _ order.Status, _ time.Time) error {
	return f.updateStatusErr
}

func (f *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, _ uuid.UUID, _ order.PaymentStatus, _ time.Time) error {
	return f.updatePayErr
}

func (f *fakeOrderRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return f.deleteErr
}

type fakeOrderQueries struct {
	view *queries.OrderView
}

func (f *fakeOrderQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	if f.view != nil {
		return f.view, nil
	}
	return &queries.OrderView{ID: id}, nil
}

func (f *fakeOrderQueries) TrackByNumber(_ context.Context, _ string) (*queries.OrderView, error) {
	return f.view, nil
}

func (f *fakeOrderQueries) List(_ context.Context, _ queries.OrderListFilter) ([]*queries.OrderListItem, error) {
	return nil, nil
}

func (f *fakeOrderQueries) Stats(_ context.Context) (*queries.OrderStats, error) {
	return &queries.OrderStats{}, nil
}

type fakePublisher struct {
	events []pubsub.OrderEvent
}

func (f *fakePublisher) PublishOrderCreated(_ context.Context, event pubsub.OrderEvent) {
	f.events = append(f.events, event)
}

type orderHarness struct {
	orderRepo  *fakeOrderRepo
	couponRepo *fakeCouponRepo
	publisher  *fakePublisher
	tx         *fakeTxManager
	uc         commands.OrderCommands
}

func newOrderHarness(now time.Time) *orderHarness {
	h := &orderHarness{
		orderRepo:  &fakeOrderRepo{byID: map[uuid.UUID]*order.Order{}},
		couponRepo: &fakeCouponRepo{byCode: map[string]*coupon.Coupon{}},
		publisher:  &fakePublisher{},
		tx:         &fakeTxManager{},
	}
	h.uc = commands.NewOrderCommands(
		h.orderRepo, h.couponRepo, &fakeOrderQueries{}, h.publisher, h.tx, clock.NewMockClock(now),
	)
	return h
}

// two mergeable lines totalling 50.000
func checkoutLines(t *testing.T) []cart.Line {
	t.Helper()
	lines, err := cart.Add(nil, cart.Line{
		ProductID: uuid.New(), Name: "Oud Perfume", Price: dec("25.000"), Quantity: 2, Size: "50ml",
	})
	require.NoError(t, err)
	return lines
}

func checkoutParams(t *testing.T, code *string) commands.CreateOrderParams {
	t.Helper()
	return commands.CreateOrderParams{
		Customer: order.Customer{
			Name:    "Fatima Al-Sabah",
			Phone:   "+96550001122",
			Address: "Salmiya, Block 10",
		},
		Lines:         checkoutLines(t),
		Shipping:      dec("2.000"),
		PaymentMethod: "knet",
		CouponCode:    code,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("applies a percentage coupon and publishes the event", func(t *testing.T) {
		h := newOrderHarness(now)
		c := newValidCoupon(t)
		h.couponRepo.byCode["SAVE20"] = c

		view, err := h.uc.CreateOrder(context.Background(), checkoutParams(t, strPtr("save20")))
		require.NoError(t, err)
		require.NotNil(t, view)

		require.Len(t, h.orderRepo.created, 1)
		created := h.orderRepo.created[0]
		assert.True(t, dec("10.000").Equal(created.Discount()))
		assert.True(t, dec("42.000").Equal(created.Total()))
		assert.Equal(t, "SAVE20", *created.CouponCode())

		require.Len(t, h.couponRepo.consumed, 1)
		assert.Equal(t, c.ID(), h.couponRepo.consumed[0])

		require.Len(t, h.publisher.events, 1)
		assert.Equal(t, created.ID(), h.publisher.events[0].OrderID)
		assert.Equal(t, created.OrderNumber(), h.publisher.events[0].OrderNumber)
	})

	t.Run("clamps a fixed discount to the subtotal", func(t *testing.T) {
		h := newOrderHarness(now)
		fixed, err := coupon.NewCoupon(uuid.New(), "FLAT99", coupon.DiscountFixed, dec("99.000"), nil, 0, nil)
		require.NoError(t, err)
		h.couponRepo.byCode["FLAT99"] = fixed

		_, err = h.uc.CreateOrder(context.Background(), checkoutParams(t, strPtr("FLAT99")))
		require.NoError(t, err)

		created := h.orderRepo.created[0]
		assert.True(t, dec("50.000").Equal(created.Discount()))
		assert.True(t, dec("2.000").Equal(created.Total()), "shipping survives a zeroed subtotal")
	})

	t.Run("the last use is consumed exactly once", func(t *testing.T) {
		h := newOrderHarness(now)
		lastUse, err := coupon.NewCoupon(uuid.New(), "SAVE20", coupon.DiscountPercentage, dec("20"), nil, 1, nil)
		require.NoError(t, err)
		h.couponRepo.byCode["SAVE20"] = lastUse
		h.couponRepo.onConsume = func(uuid.UUID) {
			h.couponRepo.byCode["SAVE20"] = coupon.ReconstructCoupon(
				lastUse.ID(), "SAVE20", coupon.DiscountPercentage, dec("20"),
				nil, 1, 1, true, nil, now, now,
			)
		}

		_, err = h.uc.CreateOrder(context.Background(), checkoutParams(t, strPtr("SAVE20")))
		require.NoError(t, err)

		_, err = h.uc.CreateOrder(context.Background(), checkoutParams(t, strPtr("SAVE20")))
		assert.ErrorIs(t, err, errs.ErrCouponExhausted)

		assert.Len(t, h.couponRepo.consumed, 1)
		assert.Len(t, h.orderRepo.created, 1)
		assert.Len(t, h.publisher.events, 1)
	})

	t.Run("losing the consume race fails the checkout", func(t *testing.T) {
		h := newOrderHarness(now)
		h.couponRepo.byCode["SAVE20"] = newValidCoupon(t)
		h.couponRepo.consumeErr = infra.WrapRepoErr("usage exhausted", nil, infra.KindConflict)

		_, err := h.uc.CreateOrder(context.Background(), checkoutParams(t, strPtr("SAVE20")))
		assert.ErrorIs(t, err, errs.ErrCouponExhausted)
		assert.Empty(t, h.publisher.events)
	})

	t.Run("regenerates the order number on a same-day collision", func(t *testing.T) {
		h := newOrderHarness(now)
		h.orderRepo.createErrs = []error{
			infra.WrapRepoErr("duplicate order number", nil, infra.KindDuplicateKey),
		}

		_, err := h.uc.CreateOrder(context.Background(), checkoutParams(t, nil))
		require.NoError(t, err)

		require.Len(t, h.orderRepo.createdNumbers, 2)
		assert.NotEqual(t, h.orderRepo.createdNumbers[0], h.orderRepo.createdNumbers[1])
		assert.Len(t, h.publisher.events, 1)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		dup := func() error {
			return infra.WrapRepoErr("duplicate order number", nil, infra.KindDuplicateKey)
		}
		h := newOrderHarness(now)
		h.orderRepo.createErrs = []error{dup(), dup(), dup()}

		_, err := h.uc.CreateOrder(context.Background(), checkoutParams(t, nil))
		assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
		assert.Len(t, h.orderRepo.createdNumbers, 3)
		assert.Empty(t, h.publisher.events)
	})

	t.Run("an order without a coupon never touches coupon usage", func(t *testing.T) {
		h := newOrderHarness(now)

		_, err := h.uc.CreateOrder(context.Background(), checkoutParams(t, nil))
		require.NoError(t, err)
		assert.Empty(t, h.couponRepo.consumed)

		created := h.orderRepo.created[0]
		assert.True(t, created.Discount().IsZero())
		assert.True(t, dec("52.000").Equal(created.Total()))
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	persisted := func(t *testing.T, h *orderHarness) *order.Order {
		t.Helper()
		o, err := order.NewOrder(order.Draft{
			Customer:      order.Customer{Name: "Fatima Al-Sabah", Phone: "+96550001122", Address: "Salmiya"},
			Items:         cart.Items(checkoutLines(t)),
			Shipping:      dec("2.000"),
			PaymentMethod: order.MethodKnet,
		}, now)
		require.NoError(t, err)
		h.orderRepo.byID[o.ID()] = o
		return o
	}

	t.Run("unknown target status", func(t *testing.T) {
		h := newOrderHarness(now)

		_, err := h.uc.UpdateStatus(context.Background(), uuid.New(), "teleported")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("missing order", func(t *testing.T) {
		h := newOrderHarness(now)

		_, err := h.uc.UpdateStatus(context.Background(), uuid.New(), "confirmed")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})

	t.Run("skipping a stage is rejected", func(t *testing.T) {
		h := newOrderHarness(now)
		o := persisted(t, h)

		_, err := h.uc.UpdateStatus(context.Background(), o.ID(), "shipped")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("concurrent operator update surfaces as a conflict", func(t *testing.T) {
		h := newOrderHarness(now)
		o := persisted(t, h)
		h.orderRepo.updateStatusErr = infra.WrapRepoErr("status changed underneath", nil, infra.KindConflict)

		_, err := h.uc.UpdateStatus(context.Background(), o.ID(), "confirmed")
		assert.ErrorIs(t, err, errs.ErrOrderConflict)
	})

	t.Run("row deleted between read and write", func(t *testing.T) {
		h := newOrderHarness(now)
		o := persisted(t, h)
		h.orderRepo.updateStatusErr = infra.WrapRepoErr("order gone", nil, infra.KindNotFound)

		_, err := h.uc.UpdateStatus(context.Background(), o.ID(), "confirmed")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})

	t.Run("valid single step succeeds", func(t *testing.T) {
		h := newOrderHarness(now)
		o := persisted(t, h)

		view, err := h.uc.UpdateStatus(context.Background(), o.ID(), "confirmed")
		require.NoError(t, err)
		assert.Equal(t, o.ID(), view.ID)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("unknown payment status", func(t *testing.T) {
		h := newOrderHarness(now)

		_, err := h.uc.UpdatePaymentStatus(context.Background(), uuid.New(), "iou")
		assert.ErrorIs(t, err, errs.ErrInvalidOrder)
	})

	t.Run("missing order", func(t *testing.T) {
		h := newOrderHarness(now)

		_, err := h.uc.UpdatePaymentStatus(context.Background(), uuid.New(), "paid")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}
