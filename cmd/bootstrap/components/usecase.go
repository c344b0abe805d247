package components

import (
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"
	"storefront-backend/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewCouponQueries,
		queries.NewProductQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		shared.NewPgxTxManager,
		commands.NewAuthCommands,
		commands.NewOrderCommands,
		commands.NewCouponCommands,
	),
)
