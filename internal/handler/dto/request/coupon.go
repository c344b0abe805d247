package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
}

type CreateCouponRequest struct {
	Code           string           `json:"code" binding:"required"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal  `json:"discount_value" binding:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxUses        int32            `json:"max_uses"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
}

// UpdateCouponRequest carries partial edits; absent fields are left untouched.
// Setting clear_valid_until removes an existing expiry.
type UpdateCouponRequest struct {
	DiscountType    *string          `json:"discount_type,omitempty" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue   *decimal.Decimal `json:"discount_value,omitempty"`
	MinOrderAmount  *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxUses         *int32           `json:"max_uses,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
	ClearValidUntil bool             `json:"clear_valid_until,omitempty"`
}
