package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/usecase/queries"
)

type CouponReadStore struct {
	db repository.DBTX
}

func NewCouponReadStore(db repository.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

const couponViewColumns = `id, code, discount_type, discount_value, min_order_amount,
	max_uses, current_uses, is_active, valid_until, created_at, updated_at`

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+couponViewColumns+` FROM coupons WHERE id = $1`, id)
	v, err := scanCouponView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}
	return v, nil
}

func (r *CouponReadStore) FindAll(ctx context.Context) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+couponViewColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	result := []*queries.CouponView{}
	for rows.Next() {
		v, err := scanCouponView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupons", err)
	}
	return result, nil
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var (
		v          queries.CouponView
		minOrder   decimal.NullDecimal
		validUntil *time.Time
	)
	if err := row.Scan(&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &minOrder,
		&v.MaxUses, &v.CurrentUses, &v.IsActive, &validUntil, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if minOrder.Valid {
		d := minOrder.Decimal
		v.MinOrderAmount = &d
	}
	v.ValidUntil = validUntil
	return &v, nil
}
