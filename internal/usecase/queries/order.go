package queries

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/infra"
	"storefront-backend/internal/pkg/errs"
)

// OrderListFilter narrows the admin order list; zero values mean "all".
type OrderListFilter struct {
	Status string
	Phone  string
	Limit  int32
}

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	TrackByNumber(ctx context.Context, orderNumber string) (*OrderView, error)
	List(ctx context.Context, filter OrderListFilter) ([]*OrderListItem, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error)
	FindList(ctx context.Context, filter OrderListFilter) ([]*OrderListItem, error)
	AggregateStats(ctx context.Context) (*OrderStats, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *orderQueriesImpl) TrackByNumber(ctx context.Context, orderNumber string) (*OrderView, error) {
	view, err := q.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, filter OrderListFilter) ([]*OrderListItem, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return q.repo.FindList(ctx, filter)
}

func (q *orderQueriesImpl) Stats(ctx context.Context) (*OrderStats, error) {
	return q.repo.AggregateStats(ctx)
}
