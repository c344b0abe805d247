package queries

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/infra"
	"storefront-backend/internal/pkg/errs"
)

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
}

type CouponViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	FindAll(ctx context.Context) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	return q.repo.FindAll(ctx)
}
