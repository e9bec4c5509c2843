package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLine(t *testing.T) {
	t.Run("plain line without discount or tax", func(t *testing.T) {
		got := ComputeLine(3, 500, 0, 0)
		assert.Equal(t, int64(1500), got.SubTotal)
		assert.Equal(t, int64(0), got.Discount)
		assert.Equal(t, int64(0), got.Tax)
		assert.Equal(t, int64(1500), got.Total)
	})

	t.Run("discount applies before tax", func(t *testing.T) {
		// 2 x $50.00 at 10% off = $90.00, then 15% VAT on $90.00
		got := ComputeLine(2, 5000, 10, 15)
		assert.Equal(t, int64(9000), got.SubTotal)
		assert.Equal(t, int64(1000), got.Discount)
		assert.Equal(t, int64(1350), got.Tax)
		assert.Equal(t, int64(10350), got.Total)
	})

	t.Run("fractional cents round half away from zero", func(t *testing.T) {
		// 1 x $0.99 at 15% VAT: tax = 14.85 cents -> 15
		got := ComputeLine(1, 99, 0, 15)
		assert.Equal(t, int64(99), got.SubTotal)
		assert.Equal(t, int64(15), got.Tax)
		assert.Equal(t, int64(114), got.Total)
	})

	t.Run("odd discount percentage rounds subtotal", func(t *testing.T) {
		// 3 x $3.33 at 7.5% off = 924.0825 cents -> 924
		got := ComputeLine(3, 333, 7.5, 0)
		assert.Equal(t, int64(924), got.SubTotal)
		assert.Equal(t, int64(75), got.Discount)
	})

	t.Run("full discount zeroes the line", func(t *testing.T) {
		got := ComputeLine(5, 1000, 100, 15)
		assert.Equal(t, int64(0), got.SubTotal)
		assert.Equal(t, int64(5000), got.Discount)
		assert.Equal(t, int64(0), got.Tax)
		assert.Equal(t, int64(0), got.Total)
	})
}

func TestCartTotalsAccumulate(t *testing.T) {
	var totals CartTotals
	totals = totals.Accumulate(ComputeLine(2, 5000, 10, 15))
	totals = totals.Accumulate(ComputeLine(1, 99, 0, 15))

	assert.Equal(t, int64(9099), totals.SubTotal)
	assert.Equal(t, int64(1000), totals.Discount)
	assert.Equal(t, int64(1365), totals.Tax)
	assert.Equal(t, int64(10464), totals.Total)
}
