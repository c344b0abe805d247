//go:build unit

package cart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domain/cart"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func line(productID uuid.UUID, size, color string, qty int32) cart.Line {
	return cart.Line{
		ProductID: productID,
		Name:      "Item",
		Price:     dec("5.000"),
		Quantity:  qty,
		Size:      size,
		Color:     color,
	}
}

var decComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestAdd(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("same product size and color merges quantities", func(t *testing.T) {
		lines, err := cart.Add(nil, line(productA, "M", "black", 1))
		require.NoError(t, err)
		lines, err = cart.Add(lines, line(productA, "M", "black", 2))
		require.NoError(t, err)

		require.Len(t, lines, 1)
		assert.Equal(t, int32(3), lines[0].Quantity)
	})

	t.Run("different size stays a separate line", func(t *testing.T) {
		lines, err := cart.Add(nil, line(productA, "M", "black", 1))
		require.NoError(t, err)
		lines, err = cart.Add(lines, line(productA, "L", "black", 1))
		require.NoError(t, err)

		assert.Len(t, lines, 2)
	})

	t.Run("merge preserves first-seen order", func(t *testing.T) {
		lines, err := cart.Add(nil, line(productA, "M", "black", 1))
		require.NoError(t, err)
		lines, err = cart.Add(lines, line(productB, "M", "red", 1))
		require.NoError(t, err)
		lines, err = cart.Add(lines, line(productA, "M", "black", 1))
		require.NoError(t, err)

		require.Len(t, lines, 2)
		assert.Equal(t, productA, lines[0].ProductID)
		assert.Equal(t, productB, lines[1].ProductID)
		assert.Equal(t, int32(2), lines[0].Quantity)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		original, err := cart.Add(nil, line(productA, "M", "black", 1))
		require.NoError(t, err)
		snapshot := make([]cart.Line, len(original))
		copy(snapshot, original)

		_, err = cart.Add(original, line(productA, "M", "black", 5))
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(snapshot, original, decComparer))
	})

	t.Run("rejects invalid lines", func(t *testing.T) {
		_, err := cart.Add(nil, line(productA, "M", "black", 0))
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		bad := line(productA, "M", "black", 1)
		bad.Price = dec("-1")
		_, err = cart.Add(nil, bad)
		assert.ErrorIs(t, err, cart.ErrNegativePrice)
	})
}

func TestSubtotal(t *testing.T) {
	productA := uuid.New()

	lines, err := cart.Add(nil, cart.Line{ProductID: productA, Price: dec("12.500"), Quantity: 2})
	require.NoError(t, err)
	lines, err = cart.Add(lines, cart.Line{ProductID: uuid.New(), Price: dec("3.250"), Quantity: 1})
	require.NoError(t, err)

	assert.True(t, dec("28.250").Equal(cart.Subtotal(lines)))
	assert.True(t, cart.Subtotal(nil).IsZero())
}

func TestItems(t *testing.T) {
	productA := uuid.New()
	lines := []cart.Line{
		{ProductID: productA, Name: "Abaya", Image: "abaya.jpg", Price: dec("30.000"), Quantity: 2, Size: "M", Color: "black"},
	}

	items := cart.Items(lines)
	require.Len(t, items, 1)
	assert.Equal(t, productA, items[0].ProductID)
	assert.Equal(t, "Abaya", items[0].Name)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.True(t, dec("60.000").Equal(items[0].LineTotal()))
}
