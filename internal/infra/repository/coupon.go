package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/infra"
)

type CouponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, code, discount_type, discount_value, min_order_amount,
	max_uses, current_uses, is_active, valid_until, created_at, updated_at`

// FindActiveByCode looks up an applicable coupon. Inactive rows are misses:
// from the storefront's point of view a disabled code does not exist.
func (r *CouponRepository) FindActiveByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := coupon.NormalizeCode(code)
	row := r.db.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND is_active = TRUE`,
		normalized,
	)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return c, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}
	return c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO coupons (code, discount_type, discount_value, min_order_amount, max_uses, is_active, valid_until)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		c.Code().String(),
		c.DiscountType().String(),
		c.DiscountValue(),
		nullDecimal(c.MinOrderAmount()),
		c.MaxUses(),
		c.IsActive(),
		c.ValidUntil(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

// CouponUpdateParams applies partial admin edits; nil fields are left untouched.
type CouponUpdateParams struct {
	DiscountType    *coupon.DiscountType
	DiscountValue   *decimal.Decimal
	MinOrderAmount  *decimal.Decimal
	MaxUses         *int32
	CurrentUses     *int32
	IsActive        *bool
	ValidUntil      *time.Time
	ClearValidUntil bool
}

func (r *CouponRepository) Update(ctx context.Context, id uuid.UUID, p CouponUpdateParams) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE coupons SET
			discount_type    = COALESCE($2, discount_type),
			discount_value   = COALESCE($3, discount_value),
			min_order_amount = COALESCE($4, min_order_amount),
			max_uses         = COALESCE($5, max_uses),
			current_uses     = COALESCE($6, current_uses),
			is_active        = COALESCE($7, is_active),
			valid_until      = CASE WHEN $9 THEN NULL ELSE COALESCE($8, valid_until) END,
			updated_at       = now()
		 WHERE id = $1`,
		id,
		discountTypePtr(p.DiscountType),
		p.DiscountValue,
		p.MinOrderAmount,
		p.MaxUses,
		p.CurrentUses,
		p.IsActive,
		p.ValidUntil,
		p.ClearValidUntil,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

// ConsumeUsage increments current_uses with a single conditional UPDATE, the
// per-row atomic primitive that keeps concurrent checkouts sharing a coupon
// free of lost-update races. A zero row count means the coupon was exhausted
// or deactivated between validation and commit.
func (r *CouponRepository) ConsumeUsage(ctx context.Context, tx DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons
		 SET current_uses = current_uses + 1, updated_at = now()
		 WHERE id = $1
		   AND is_active = TRUE
		   AND (max_uses = 0 OR current_uses < max_uses)`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to consume coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon no longer applicable", nil, infra.KindConflict)
	}
	return nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id            uuid.UUID
		code          string
		discountType  string
		discountValue decimal.Decimal
		minOrder      decimal.NullDecimal
		maxUses       int32
		currentUses   int32
		isActive      bool
		validUntil    *time.Time
		createdAt     time.Time
		updatedAt     time.Time
	)
	if err := row.Scan(&id, &code, &discountType, &discountValue, &minOrder,
		&maxUses, &currentUses, &isActive, &validUntil, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var minOrderAmount *decimal.Decimal
	if minOrder.Valid {
		v := minOrder.Decimal
		minOrderAmount = &v
	}

	return coupon.ReconstructCoupon(
		id,
		coupon.Code(code),
		coupon.DiscountType(discountType),
		discountValue,
		minOrderAmount,
		maxUses, currentUses,
		isActive,
		validUntil,
		createdAt, updatedAt,
	), nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func discountTypePtr(t *coupon.DiscountType) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
