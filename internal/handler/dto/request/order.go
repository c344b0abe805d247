package request

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/cart"
)

type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity" binding:"required,min=1"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	CustomerAddress string             `json:"customer_address" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Shipping        decimal.Decimal    `json:"shipping"`
	PaymentMethod   string             `json:"payment_method" binding:"required"`
	CouponCode      *string            `json:"coupon_code,omitempty"`
}

func (r CreateOrderRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ToCartLines folds the raw item list through the cart reducer so duplicate
// product/size/color entries arrive at the order as one merged line.
func (r CreateOrderRequest) ToCartLines() ([]cart.Line, error) {
	var lines []cart.Line
	for _, it := range r.Items {
		merged, err := cart.Add(lines, cart.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		})
		if err != nil {
			return nil, err
		}
		lines = merged
	}
	return lines, nil
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}
