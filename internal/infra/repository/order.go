package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/order"
	"storefront-backend/internal/infra"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order row and its item snapshots. Callers run it inside
// a transaction so the order is never visible without its discount recorded.
func (r *OrderRepository) Create(ctx context.Context, tx DBTX, o *order.Order) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (
			id, order_number, customer_name, customer_phone, customer_address,
			subtotal, discount, shipping, total,
			status, payment_method, payment_status, coupon_code, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID(), o.OrderNumber(),
		o.Customer().Name, o.Customer().Phone, o.Customer().Address,
		o.Subtotal(), o.Discount(), o.Shipping(), o.Total(),
		o.Status().String(), o.PaymentMethod().String(), o.PaymentStatus().String(),
		o.CouponCode(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("order number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}

	for i, it := range o.Items() {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, image, price, quantity, size, color, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			o.ID(), it.ProductID, it.Name, it.Image, it.Price, it.Quantity, it.Size, it.Color, i,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findOne(ctx, `WHERE order_number = $1`, orderNumber)
}

// UpdateStatus applies a validated transition with a compare-and-swap on the
// previous status: a concurrent operator moving the same order loses cleanly
// instead of silently overwriting.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(), updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("order status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to order.PaymentStatus, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = $3 WHERE id = $1`,
		id, to.String(), updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete is the administrative purge; normal flows never remove orders.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

const orderColumns = `id, order_number, customer_name, customer_phone, customer_address,
	subtotal, discount, shipping, total, status, payment_method, payment_status,
	coupon_code, created_at, updated_at`

func (r *OrderRepository) findOne(ctx context.Context, where string, arg any) (*order.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders `+where, arg)

	var (
		id                            uuid.UUID
		orderNumber                   string
		custName, custPhone, custAddr string
		subtotal, discount            decimal.Decimal
		shipping, total               decimal.Decimal
		status, method, payStatus     string
		couponCode                    *string
		createdAt, updatedAt          time.Time
	)
	err := row.Scan(&id, &orderNumber, &custName, &custPhone, &custAddr,
		&subtotal, &discount, &shipping, &total, &status, &method, &payStatus,
		&couponCode, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return order.ReconstructOrder(
		id, orderNumber,
		order.Customer{Name: custName, Phone: custPhone, Address: custAddr},
		items,
		subtotal, discount, shipping, total,
		order.Status(status),
		order.PaymentMethod(method),
		order.PaymentStatus(payStatus),
		couponCode,
		createdAt, updatedAt,
	), nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, name, image, price, quantity, size, color
		 FROM order_items WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.Price, &it.Quantity, &it.Size, &it.Color); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check order existence", err)
	}
	return exists, nil
}
