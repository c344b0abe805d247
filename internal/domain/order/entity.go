package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be at least 1")
	ErrNegativePrice        = errors.New("item price cannot be negative")
	ErrNegativeShipping     = errors.New("shipping cannot be negative")
	ErrDiscountExceedsTotal = errors.New("discount exceeds order subtotal")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrMissingCustomerPhone = errors.New("customer phone is required")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// Item is a snapshot of a catalog product at checkout time. It never tracks
// the live product row.
type Item struct {
	ProductID uuid.UUID
	Name      string
	Image     string
	Price     decimal.Decimal
	Quantity  int32
	Size      string
	Color     string
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

type Customer struct {
	Name    string
	Phone   string
	Address string
}

// Draft is the checkout input assembled by the cart aggregator.
type Draft struct {
	Customer      Customer
	Items         []Item
	Discount      decimal.Decimal
	Shipping      decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus // zero value ⇒ pending
	CouponCode    *string
}

type Order struct {
	id            uuid.UUID
	orderNumber   string
	customer      Customer
	items         []Item
	subtotal      decimal.Decimal
	discount      decimal.Decimal
	shipping      decimal.Decimal
	total         decimal.Decimal
	status        Status
	paymentMethod PaymentMethod
	paymentStatus PaymentStatus
	couponCode    *string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOrder(d Draft, now time.Time) (*Order, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
	}
	if d.Shipping.IsNegative() {
		return nil, ErrNegativeShipping
	}
	if !d.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if strings.TrimSpace(d.Customer.Phone) == "" {
		return nil, ErrMissingCustomerPhone
	}

	subtotal := decimal.Zero
	for _, it := range d.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	// Callers clamp upstream, but total ownership lives here: re-check.
	if d.Discount.GreaterThan(subtotal) {
		return nil, ErrDiscountExceedsTotal
	}
	discount := d.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	paymentStatus := d.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = PaymentPending
	}
	if !paymentStatus.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	items := make([]Item, len(d.Items))
	copy(items, d.Items)

	return &Order{
		id:            uuid.New(),
		orderNumber:   newOrderNumber(now),
		customer:      d.Customer,
		items:         items,
		subtotal:      subtotal,
		discount:      discount,
		shipping:      d.Shipping,
		total:         computeTotal(subtotal, discount, d.Shipping),
		status:        StatusPending,
		paymentMethod: d.PaymentMethod,
		paymentStatus: paymentStatus,
		couponCode:    d.CouponCode,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNumber string,
	customer Customer,
	items []Item,
	subtotal, discount, shipping, total decimal.Decimal,
	status Status,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	couponCode *string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		customer:      customer,
		items:         items,
		subtotal:      subtotal,
		discount:      discount,
		shipping:      shipping,
		total:         total,
		status:        status,
		paymentMethod: paymentMethod,
		paymentStatus: paymentStatus,
		couponCode:    couponCode,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// computeTotal enforces the invariant total = max(0, subtotal-discount) + shipping.
func computeTotal(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	net := subtotal.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return net.Add(shipping)
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}

// RegenerateOrderNumber draws a fresh fragment after a same-day collision.
// Only meaningful before the order is persisted; the number is immutable
// once assigned a row.
func (o *Order) RegenerateOrderNumber() {
	o.orderNumber = newOrderNumber(o.createdAt)
}

// ChangeStatus validates the transition against the lifecycle table.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !o.status.CanTransitionTo(target) {
		return ErrTransitionNotAllowed
	}
	o.status = target
	o.updatedAt = now
	return nil
}

// ChangePaymentStatus is independent of the fulfilment status dimension.
func (o *Order) ChangePaymentStatus(target PaymentStatus, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidPaymentStatus
	}
	o.paymentStatus = target
	o.updatedAt = now
	return nil
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) Items() []Item                { return o.items }
func (o *Order) Subtotal() decimal.Decimal    { return o.subtotal }
func (o *Order) Discount() decimal.Decimal    { return o.discount }
func (o *Order) Shipping() decimal.Decimal    { return o.shipping }
func (o *Order) Total() decimal.Decimal       { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) CouponCode() *string          { return o.couponCode }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
