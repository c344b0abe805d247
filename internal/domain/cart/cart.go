package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain/order"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price cannot be negative")
)

// Line is one cart entry. Lines for the same product in the same size and
// color are interchangeable and merge by summing quantities.
type Line struct {
	ProductID uuid.UUID
	Name      string
	Image     string
	Price     decimal.Decimal
	Quantity  int32
	Size      string
	Color     string
}

// Key identifies a mergeable line.
type Key struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Add merges a line into the cart and returns a new slice; the input is never
// mutated. A line matching an existing key sums quantities in place (first-seen
// order is preserved), anything else appends.
func Add(lines []Line, l Line) ([]Line, error) {
	if l.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if l.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	out := make([]Line, len(lines))
	copy(out, lines)

	key := l.Key()
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity += l.Quantity
			return out, nil
		}
	}
	return append(out, l), nil
}

// Subtotal folds line totals.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return sum
}

// Items converts cart lines into the order-item snapshot shape.
func Items(lines []Line) []order.Item {
	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Image:     l.Image,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
		}
	}
	return items
}
