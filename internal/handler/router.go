package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/handler/api"
	"storefront-backend/internal/handler/middleware"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Order        *api.OrderHandler
	Coupon       *api.CouponHandler
	Product      *api.ProductHandler
	Notification *api.NotificationHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, clk clock.Clock, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, clk, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, clk clock.Clock, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	checkoutLimiter := middleware.NewRateLimiter(cfg.RateLimit.CheckoutLimit, cfg.RateLimit.Window, clk)
	couponLimiter := middleware.NewRateLimiter(cfg.RateLimit.CouponLimit, cfg.RateLimit.Window, clk)
	adminLimiter := middleware.NewRateLimiter(cfg.RateLimit.AdminLimit, cfg.RateLimit.Window, clk)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login, Mw: []gin.HandlerFunc{middleware.RateLimit(couponLimiter)}},
			})
		}

		orders := apiGroup.Group("/orders")
		{
			// Public storefront surface: checkout and tracking.
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.CreateOrder, Mw: []gin.HandlerFunc{middleware.RateLimit(checkoutLimiter)}},
				{Method: http.MethodGet, Path: "/track/:orderNumber", Handler: h.Order.TrackOrder},
			})

			adminOrders := orders.Group("")
			adminOrders.Use(authMiddleware.RequireAuth(), middleware.RateLimit(adminLimiter))
			addRoutes(adminOrders, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Order.ListOrders},
				{Method: http.MethodGet, Path: "/stats", Handler: h.Order.GetStats},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.GetOrder},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Order.UpdateStatus},
				{Method: http.MethodPatch, Path: "/:id/payment", Handler: h.Order.UpdatePaymentStatus},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Order.DeleteOrder},
			})
		}

		coupons := apiGroup.Group("/coupons")
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: h.Coupon.ValidateCoupon, Mw: []gin.HandlerFunc{middleware.RateLimit(couponLimiter)}},
			})

			adminCoupons := coupons.Group("")
			adminCoupons.Use(authMiddleware.RequireAuth(), middleware.RateLimit(adminLimiter))
			addRoutes(adminCoupons, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Coupon.ListCoupons},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Coupon.GetCoupon},
				{Method: http.MethodPost, Path: "", Handler: h.Coupon.CreateCoupon},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Coupon.UpdateCoupon},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Coupon.DeleteCoupon},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/products", Handler: h.Product.ListProducts},
		})

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth(), middleware.RateLimit(adminLimiter))
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.GetFeed},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notification.MarkRead},
				{Method: http.MethodPost, Path: "/read-all", Handler: h.Notification.MarkAllRead},
				{Method: http.MethodDelete, Path: "", Handler: h.Notification.ClearAll},
				{Method: http.MethodPut, Path: "/sound", Handler: h.Notification.SetSound},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
