package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Coupon rejection reasons: each maps to a distinct user-facing message,
	// handlers must never collapse them into a generic "invalid coupon".
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExpired   = errors.New("coupon expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponCodeTaken = errors.New("coupon code already exists")
	ErrInvalidCoupon   = errors.New("invalid coupon parameters")

	// Order errors
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderConflict     = errors.New("order was modified concurrently")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenGeneration    = errors.New("token generation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
