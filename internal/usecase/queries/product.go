package queries

import "context"

type ProductQueries interface {
	List(ctx context.Context) ([]*ProductView, error)
}

type ProductViewRepo interface {
	FindActive(ctx context.Context) ([]*ProductView, error)
}

type productQueriesImpl struct {
	repo ProductViewRepo
}

func NewProductQueries(repo ProductViewRepo) ProductQueries {
	return &productQueriesImpl{repo: repo}
}

func (q *productQueriesImpl) List(ctx context.Context) ([]*ProductView, error) {
	return q.repo.FindActive(ctx)
}
