package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

type OrderItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []OrderItemView `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	CouponCode      *string         `json:"coupon_code,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderListItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderStats is the admin dashboard fold. "Today" is bounded by the store's
// business day, not UTC.
type OrderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TodayOrders     int64           `json:"today_orders"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
}

type CouponView struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxUses        int32            `json:"max_uses"`
	CurrentUses    int32            `json:"current_uses"`
	IsActive       bool             `json:"is_active"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type ProductView struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}
