package components

import (
	"log/slog"
	"time"

	"storefront-backend/internal/infra/readstore"
	repo_impl "storefront-backend/internal/infra/repository"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/pkg/config"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewStoreLocation,
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewAdminRepository,
			fx.As(new(commands.AdminRepository)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
			fx.As(new(notify.Source)),
		),
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponViewRepo)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repo_impl.DBTX {
	return pool
}

// NewStoreLocation resolves the storefront's business timezone, which decides
// where the "today" boundary of order statistics falls.
func NewStoreLocation(cfg config.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Store.TimeZone)
	if err != nil {
		slog.Warn("invalid store timezone, falling back to UTC", "timezone", cfg.Store.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}
