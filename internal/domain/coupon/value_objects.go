package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode     = errors.New("invalid coupon code format")
	ErrInvalidDiscountType   = errors.New("invalid discount type")
	ErrInvalidDiscountValue  = errors.New("discount value cannot be negative")
	ErrInvalidMinOrderAmount = errors.New("minimum order amount cannot be negative")
	ErrInvalidMaxUses        = errors.New("max uses cannot be negative")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is a normalized coupon code. Codes compare case-insensitively, so the
// canonical form is upper-case on both write and lookup.
type Code string

func NewCode(code string) (Code, error) {
	code = NormalizeCode(code)
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Code) String() string {
	return string(c)
}
