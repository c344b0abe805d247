package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/coupon"
	reqdto "storefront-backend/internal/handler/dto/request"
	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/queries"
)

// CouponValidationResult is what a storefront shows after a successful
// validation. Validation never consumes a use.
type CouponValidationResult struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type CouponCommands interface {
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponValidationResult, error)
	CreateCoupon(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, req reqdto.UpdateCouponRequest) (*queries.CouponView, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

type couponCommandsImpl struct {
	couponRepo    CouponRepository
	couponQueries queries.CouponQueries
	clock         clock.Clock
}

func NewCouponCommands(couponRepo CouponRepository, couponQueries queries.CouponQueries, clock clock.Clock) CouponCommands {
	return &couponCommandsImpl{
		couponRepo:    couponRepo,
		couponQueries: couponQueries,
		clock:         clock,
	}
}

func (u *couponCommandsImpl) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponValidationResult, error) {
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
			return nil, err
		}
	}

	discount := couponEntity.DiscountAmount(subtotal)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return &CouponValidationResult{
		CouponID:       couponEntity.ID(),
		Code:           couponEntity.Code().String(),
		DiscountType:   couponEntity.DiscountType().String(),
		DiscountAmount: discount,
	}, nil
}

func (u *couponCommandsImpl) CreateCoupon(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error) {
	couponEntity, err := coupon.NewCoupon(
		uuid.New(),
		req.Code,
		coupon.DiscountType(req.DiscountType),
		req.DiscountValue,
		req.MinOrderAmount,
		req.MaxUses,
		req.ValidUntil,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCoupon)
	}

	id, err := u.couponRepo.Create(ctx, couponEntity)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.ErrCouponCodeTaken
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view, err := u.couponQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *couponCommandsImpl) UpdateCoupon(ctx context.Context, id uuid.UUID, req reqdto.UpdateCouponRequest) (*queries.CouponView, error) {
	params := repository.CouponUpdateParams{
		DiscountValue:   req.DiscountValue,
		MinOrderAmount:  req.MinOrderAmount,
		MaxUses:         req.MaxUses,
		IsActive:        req.IsActive,
		ValidUntil:      req.ValidUntil,
		ClearValidUntil: req.ClearValidUntil,
	}
	if req.DiscountType != nil {
		discountType := coupon.DiscountType(*req.DiscountType)
		if !discountType.IsValid() {
			return nil, errs.Mark(coupon.ErrInvalidDiscountType, errs.ErrInvalidCoupon)
		}
		params.DiscountType = &discountType
	}
	if req.DiscountValue != nil && req.DiscountValue.IsNegative() {
		return nil, errs.Mark(coupon.ErrInvalidDiscountValue, errs.ErrInvalidCoupon)
	}

	if err := u.couponRepo.Update(ctx, id, params); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view, err := u.couponQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *couponCommandsImpl) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if err := u.couponRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrCouponNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
