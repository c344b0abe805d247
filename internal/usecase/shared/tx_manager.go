package shared

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/pkg/errs"
)

var (
	ErrTransactionBegin  = errs.New("failed to begin transaction")
	ErrTransactionCommit = errs.New("failed to commit transaction")
)

// TxManager owns the transaction boundary so command orchestration stays
// independent of the concrete pool.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx repository.DBTX) error) error
}

type pgxTxManager struct {
	db *pgxpool.Pool
}

func NewPgxTxManager(db *pgxpool.Pool) TxManager {
	return &pgxTxManager{db: db}
}

func (m *pgxTxManager) RunInTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			// Only log rollback errors for uncommitted transactions
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrTransactionCommit)
	}
	return nil
}
