package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront-backend/internal/infra"
)

type AdminRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type AdminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*AdminRecord, error) {
	var rec AdminRecord
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("admin not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find admin by email", err)
	}
	return &rec, nil
}
