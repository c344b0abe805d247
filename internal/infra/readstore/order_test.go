//go:build unit

package readstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-backend/internal/pkg/clock"
)

func TestDayBounds(t *testing.T) {
	kuwait := time.FixedZone("AST", 3*60*60)

	t.Run("just before local midnight stays in the same day", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2025, 6, 15, 23, 59, 0, 0, kuwait))

		start, end := dayBounds(clk.Now(), kuwait)

		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, kuwait), start)
		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, kuwait), end)
	})

	t.Run("local midnight opens the next day", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2025, 6, 16, 0, 0, 0, 0, kuwait))

		start, end := dayBounds(clk.Now(), kuwait)

		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, kuwait), start)
		assert.Equal(t, time.Date(2025, 6, 17, 0, 0, 0, 0, kuwait), end)
	})

	t.Run("UTC instant is converted to the store day", func(t *testing.T) {
		// 21:30 UTC on the 15th is already 00:30 on the 16th in the store.
		clk := clock.NewMockClock(time.Date(2025, 6, 15, 21, 30, 0, 0, time.UTC))

		start, end := dayBounds(clk.Now(), kuwait)

		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, kuwait).Unix(), start.Unix())
		assert.Equal(t, time.Date(2025, 6, 17, 0, 0, 0, 0, kuwait).Unix(), end.Unix())
	})

	t.Run("window is exactly 24 hours in a fixed-offset zone", func(t *testing.T) {
		start, end := dayBounds(time.Date(2025, 6, 15, 12, 0, 0, 0, kuwait), kuwait)

		assert.Equal(t, 24*time.Hour, end.Sub(start))
	})
}
