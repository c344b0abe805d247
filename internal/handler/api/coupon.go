package api

import (
	"errors"
	"net/http"

	reqdto "storefront-backend/internal/handler/dto/request"
	"storefront-backend/internal/handler/httperr"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// ValidateCoupon is the public storefront check. It never consumes a use and
// answers with a reason-specific message on rejection.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req reqdto.ValidateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.couponCommands.ValidateCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		respondCouponOrOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, coupons)
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID format",
		})
		return
	}

	view, err := h.couponQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.couponCommands.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCouponCodeTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A coupon with this code already exists",
			})
		case errors.Is(err, errs.ErrInvalidCoupon):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid coupon parameters",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID format",
		})
		return
	}

	var req reqdto.UpdateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.couponCommands.UpdateCoupon(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
		case errors.Is(err, errs.ErrInvalidCoupon):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid coupon parameters",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID format",
		})
		return
	}

	if err := h.couponCommands.DeleteCoupon(c.Request.Context(), id); err != nil {
		respondCouponAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondCouponAdminError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrCouponNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
