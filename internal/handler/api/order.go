package api

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/domain/order"
	reqdto "storefront-backend/internal/handler/dto/request"
	"storefront-backend/internal/handler/httperr"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	lines, err := req.ToCartLines()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	view, err := h.orderCommands.CreateOrder(c.Request.Context(), commands.CreateOrderParams{
		Customer: order.Customer{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
		},
		Lines:         lines,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.GetCouponCode(),
	})
	if err != nil {
		respondCouponOrOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// respondCouponOrOrderError keeps the per-reason coupon messages distinct so
// the storefront can tell a shopper exactly why checkout was refused.
func respondCouponOrOrderError(c *gin.Context, err error) {
	var belowMin *coupon.BelowMinimumError
	switch {
	case errors.Is(err, errs.ErrCouponNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, errs.ErrCouponExpired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "This coupon has expired",
		})
	case errors.Is(err, errs.ErrCouponExhausted):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "This coupon has reached its usage limit",
		})
	case errors.As(err, &belowMin):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": belowMin.Error(),
		})
	case errors.Is(err, errs.ErrInvalidOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Order validation failed",
		})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := queries.OrderListFilter{
		Status: c.Query("status"),
		Phone:  c.Query("phone"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit parameter",
			})
			return
		}
		filter.Limit = int32(limit)
	}

	items, err := h.orderQueries.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orderQueries.Stats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// TrackOrder is the public tracking endpoint keyed by the human-facing order
// number, not the internal id.
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	view, err := h.orderQueries.TrackByNumber(c.Request.Context(), orderNumber)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.orderCommands.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Status transition not allowed",
			})
		case errors.Is(err, errs.ErrOrderConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order was modified by another operator",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	var req reqdto.UpdatePaymentStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.orderCommands.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, errs.ErrInvalidOrder):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid payment status",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	if err := h.orderCommands.DeleteOrder(c.Request.Context(), id); err != nil {
		respondOrderLookupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondOrderLookupError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
