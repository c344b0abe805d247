package components

import (
	"storefront-backend/internal/handler"
	"storefront-backend/internal/handler/api"
	"storefront-backend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewProductHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	order *api.OrderHandler,
	coupon *api.CouponHandler,
	product *api.ProductHandler,
	notification *api.NotificationHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Order:        order,
		Coupon:       coupon,
		Product:      product,
		Notification: notification,
	}
}
