package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

// BelowMinimumError carries the configured minimum so callers can surface it.
type BelowMinimumError struct {
	Min decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("order subtotal must be at least %s to use this coupon", e.Min.StringFixed(3))
}

type Coupon struct {
	id             uuid.UUID
	code           Code
	discountType   DiscountType
	discountValue  decimal.Decimal
	minOrderAmount *decimal.Decimal
	maxUses        int32
	currentUses    int32
	isActive       bool
	validUntil     *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	discountType DiscountType,
	discountValue decimal.Decimal,
	minOrderAmount *decimal.Decimal,
	maxUses int32,
	validUntil *time.Time,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if !discountType.IsValid() {
		return nil, ErrInvalidDiscountType
	}
	if discountValue.IsNegative() {
		return nil, ErrInvalidDiscountValue
	}
	if minOrderAmount != nil && minOrderAmount.IsNegative() {
		return nil, ErrInvalidMinOrderAmount
	}
	if maxUses < 0 {
		return nil, ErrInvalidMaxUses
	}

	return &Coupon{
		id:             id,
		code:           couponCode,
		discountType:   discountType,
		discountValue:  discountValue,
		minOrderAmount: minOrderAmount,
		maxUses:        maxUses,
		isActive:       true,
		validUntil:     validUntil,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	discountType DiscountType,
	discountValue decimal.Decimal,
	minOrderAmount *decimal.Decimal,
	maxUses, currentUses int32,
	isActive bool,
	validUntil *time.Time,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:             id,
		code:           code,
		discountType:   discountType,
		discountValue:  discountValue,
		minOrderAmount: minOrderAmount,
		maxUses:        maxUses,
		currentUses:    currentUses,
		isActive:       isActive,
		validUntil:     validUntil,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Validate checks applicability against the order subtotal at a point in time.
// It never mutates usage state; consuming a use is a separate repository
// operation guarded by the order-creation transaction.
func (c *Coupon) Validate(subtotal decimal.Decimal, now time.Time) error {
	if c.validUntil != nil && c.validUntil.Before(now) {
		return ErrCouponExpired
	}
	if c.maxUses > 0 && c.currentUses >= c.maxUses {
		return ErrCouponExhausted
	}
	if c.minOrderAmount != nil && subtotal.LessThan(*c.minOrderAmount) {
		return &BelowMinimumError{Min: *c.minOrderAmount}
	}
	return nil
}

// DiscountAmount computes the raw discount for a subtotal. The result is not
// clamped to the subtotal; the order aggregate owns that invariant.
func (c *Coupon) DiscountAmount(subtotal decimal.Decimal) decimal.Decimal {
	if c.discountType == DiscountPercentage {
		return subtotal.Mul(c.discountValue).Div(decimal.NewFromInt(100)).Round(3)
	}
	return c.discountValue
}

func (c *Coupon) ID() uuid.UUID                    { return c.id }
func (c *Coupon) Code() Code                       { return c.code }
func (c *Coupon) DiscountType() DiscountType       { return c.discountType }
func (c *Coupon) DiscountValue() decimal.Decimal   { return c.discountValue }
func (c *Coupon) MinOrderAmount() *decimal.Decimal { return c.minOrderAmount }
func (c *Coupon) MaxUses() int32                   { return c.maxUses }
func (c *Coupon) CurrentUses() int32               { return c.currentUses }
func (c *Coupon) IsActive() bool                   { return c.isActive }
func (c *Coupon) ValidUntil() *time.Time           { return c.validUntil }
func (c *Coupon) CreatedAt() time.Time             { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time             { return c.updatedAt }
