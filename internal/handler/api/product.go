package api

import (
	"net/http"

	"storefront-backend/internal/handler/httperr"
	"storefront-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productQueries queries.ProductQueries
}

func NewProductHandler(productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productQueries: productQueries,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, products)
}
