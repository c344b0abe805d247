//go:build unit

package order_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domain/order"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validDraft() order.Draft {
	return order.Draft{
		Customer: order.Customer{
			Name:    "Fatima Al-Sabah",
			Phone:   "+96550001234",
			Address: "Block 4, Street 12, Salmiya",
		},
		Items: []order.Item{
			{ProductID: uuid.New(), Name: "Oud Perfume", Price: dec("20.000"), Quantity: 2},
			{ProductID: uuid.New(), Name: "Gift Wrap", Price: dec("1.500"), Quantity: 1},
		},
		Shipping:      dec("2.000"),
		PaymentMethod: order.MethodKnet,
	}
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("computes totals", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		assert.True(t, dec("41.500").Equal(o.Subtotal()))
		assert.True(t, dec("43.500").Equal(o.Total()))
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
	})

	t.Run("applies discount before shipping", func(t *testing.T) {
		d := validDraft()
		d.Discount = dec("10.000")
		o, err := order.NewOrder(d, now)
		require.NoError(t, err)

		// (41.500 - 10.000) + 2.000
		assert.True(t, dec("33.500").Equal(o.Total()))
	})

	t.Run("order number carries the date and a random fragment", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(o.OrderNumber(), "ORD-20250615-"))
		assert.Len(t, o.OrderNumber(), len("ORD-20250615-")+6)
	})

	t.Run("regenerating keeps the creation date and redraws the fragment", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)
		before := o.OrderNumber()

		o.RegenerateOrderNumber()

		assert.True(t, strings.HasPrefix(o.OrderNumber(), "ORD-20250615-"))
		assert.Len(t, o.OrderNumber(), len(before))
		assert.NotEqual(t, before, o.OrderNumber())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*order.Draft)
			errIs  error
		}{
			{
				name:   "no items",
				mutate: func(d *order.Draft) { d.Items = nil },
				errIs:  order.ErrEmptyItems,
			},
			{
				name:   "zero quantity",
				mutate: func(d *order.Draft) { d.Items[0].Quantity = 0 },
				errIs:  order.ErrInvalidQuantity,
			},
			{
				name:   "negative price",
				mutate: func(d *order.Draft) { d.Items[0].Price = dec("-1") },
				errIs:  order.ErrNegativePrice,
			},
			{
				name:   "negative shipping",
				mutate: func(d *order.Draft) { d.Shipping = dec("-1") },
				errIs:  order.ErrNegativeShipping,
			},
			{
				name:   "unknown payment method",
				mutate: func(d *order.Draft) { d.PaymentMethod = "bitcoin" },
				errIs:  order.ErrInvalidPaymentMethod,
			},
			{
				name:   "blank phone",
				mutate: func(d *order.Draft) { d.Customer.Phone = "   " },
				errIs:  order.ErrMissingCustomerPhone,
			},
			{
				name:   "discount above subtotal",
				mutate: func(d *order.Draft) { d.Discount = dec("100.000") },
				errIs:  order.ErrDiscountExceedsTotal,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d := validDraft()
				tc.mutate(&d)
				_, err := order.NewOrder(d, now)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("pre-authorized payment status is kept", func(t *testing.T) {
		d := validDraft()
		d.PaymentStatus = order.PaymentPaid
		o, err := order.NewOrder(d, now)
		require.NoError(t, err)

		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	})
}

func TestStatusTransitions(t *testing.T) {
	all := []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusProcessing,
		order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
	}
	allowed := map[order.Status][]order.Status{
		order.StatusPending:    {order.StatusConfirmed, order.StatusCancelled},
		order.StatusConfirmed:  {order.StatusProcessing, order.StatusCancelled},
		order.StatusProcessing: {order.StatusShipped, order.StatusCancelled},
		order.StatusShipped:    {order.StatusDelivered},
		order.StatusDelivered:  {},
		order.StatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusShipped.IsTerminal())
}

func TestChangeStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("allowed transition bumps updatedAt", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		later := now.Add(time.Hour)
		require.NoError(t, o.ChangeStatus(order.StatusConfirmed, later))
		assert.Equal(t, order.StatusConfirmed, o.Status())
		assert.Equal(t, later, o.UpdatedAt())
	})

	t.Run("skipping a stage is rejected", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		assert.ErrorIs(t, o.ChangeStatus(order.StatusShipped, now), order.ErrTransitionNotAllowed)
		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		assert.ErrorIs(t, o.ChangeStatus("lost", now), order.ErrInvalidStatus)
	})

	t.Run("payment status moves independently", func(t *testing.T) {
		o, err := order.NewOrder(validDraft(), now)
		require.NoError(t, err)

		require.NoError(t, o.ChangePaymentStatus(order.PaymentPaid, now))
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		assert.Equal(t, order.StatusPending, o.Status())

		require.NoError(t, o.ChangePaymentStatus(order.PaymentFailed, now))
		assert.Equal(t, order.PaymentFailed, o.PaymentStatus())
	})
}
