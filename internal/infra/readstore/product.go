package readstore

import (
	"context"

	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/usecase/queries"
)

type ProductReadStore struct {
	db repository.DBTX
}

func NewProductReadStore(db repository.DBTX) *ProductReadStore {
	return &ProductReadStore{db: db}
}

func (r *ProductReadStore) FindActive(ctx context.Context) ([]*queries.ProductView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, image, price FROM products WHERE is_active = TRUE ORDER BY name`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	result := []*queries.ProductView{}
	for rows.Next() {
		var v queries.ProductView
		if err := rows.Scan(&v.ID, &v.Name, &v.Image, &v.Price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return result, nil
}
