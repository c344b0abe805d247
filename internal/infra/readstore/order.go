package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/infra"
	"storefront-backend/internal/infra/repository"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/usecase/queries"
)

type OrderReadStore struct {
	db    repository.DBTX
	clock clock.Clock
	loc   *time.Location
}

// NewOrderReadStore wires the read side. loc defines the store's business day
// for the stats aggregation.
func NewOrderReadStore(db repository.DBTX, clk clock.Clock, loc *time.Location) *OrderReadStore {
	return &OrderReadStore{db: db, clock: clk, loc: loc}
}

const orderViewColumns = `id, order_number, customer_name, customer_phone, customer_address,
	subtotal, discount, shipping, total, status, payment_method, payment_status,
	coupon_code, created_at, updated_at`

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *OrderReadStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*queries.OrderView, error) {
	return r.findOne(ctx, `WHERE order_number = $1`, orderNumber)
}

func (r *OrderReadStore) findOne(ctx context.Context, where string, arg any) (*queries.OrderView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderViewColumns+` FROM orders `+where, arg)

	var v queries.OrderView
	err := row.Scan(&v.ID, &v.OrderNumber, &v.CustomerName, &v.CustomerPhone, &v.CustomerAddress,
		&v.Subtotal, &v.Discount, &v.Shipping, &v.Total, &v.Status, &v.PaymentMethod, &v.PaymentStatus,
		&v.CouponCode, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.findItems(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.Items = items
	return &v, nil
}

func (r *OrderReadStore) findItems(ctx context.Context, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, name, image, price, quantity, size, color
		 FROM order_items WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	items := []queries.OrderItemView{}
	for rows.Next() {
		var it queries.OrderItemView
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

func (r *OrderReadStore) FindList(ctx context.Context, filter queries.OrderListFilter) ([]*queries.OrderListItem, error) {
	sql := `SELECT id, order_number, customer_name, customer_phone, total, status, payment_status, created_at
		FROM orders`
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Phone != "" {
		args = append(args, filter.Phone)
		conds = append(conds, fmt.Sprintf("customer_phone = $%d", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit)
	sql += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	result := []*queries.OrderListItem{}
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(&item.ID, &item.OrderNumber, &item.CustomerName, &item.CustomerPhone,
			&item.Total, &item.Status, &item.PaymentStatus, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order list", err)
	}
	return result, nil
}

// dayBounds returns the [00:00, 24:00) window of now's calendar day in loc.
// The boundary follows the store's local day, not a UTC date prefix.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// AggregateStats folds the whole orders table.
func (r *OrderReadStore) AggregateStats(ctx context.Context) (*queries.OrderStats, error) {
	dayStart, dayEnd := dayBounds(r.clock.Now(), r.loc)

	var (
		stats        queries.OrderStats
		totalRevenue decimal.NullDecimal
		todayRevenue decimal.NullDecimal
	)
	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			SUM(total),
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			SUM(total) FILTER (WHERE created_at >= $1 AND created_at < $2)
		 FROM orders`,
		dayStart, dayEnd,
	).Scan(&stats.TotalOrders, &stats.PendingOrders, &stats.DeliveredOrders,
		&totalRevenue, &stats.TodayOrders, &todayRevenue)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate order stats", err)
	}

	stats.TotalRevenue = decimal.Zero
	if totalRevenue.Valid {
		stats.TotalRevenue = totalRevenue.Decimal
	}
	stats.TodayRevenue = decimal.Zero
	if todayRevenue.Valid {
		stats.TodayRevenue = todayRevenue.Decimal
	}
	return &stats, nil
}

// CountOrders and RecentOrders implement notify.Source, the poll half of the
// order-arrival signal.

func (r *OrderReadStore) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count orders", err)
	}
	return count, nil
}

func (r *OrderReadStore) RecentOrders(ctx context.Context, limit int32) ([]notify.OrderHead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_number, total, created_at
		 FROM orders ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load recent orders", err)
	}
	defer rows.Close()

	heads := []notify.OrderHead{}
	for rows.Next() {
		var h notify.OrderHead
		if err := rows.Scan(&h.ID, &h.OrderNumber, &h.Total, &h.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan recent order", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate recent orders", err)
	}
	return heads, nil
}
