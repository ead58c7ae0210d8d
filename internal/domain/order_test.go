package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderComputeTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 100, Discount: 10},
			{ProductID: 2, Quantity: 1, UnitPrice: 50, Discount: 0},
		},
	}
	order.ComputeTotals()

	assert.Equal(t, 250.0, order.TotalPrice)
	assert.Equal(t, 20.0, order.DiscountApplied)
	assert.Equal(t, 230.0, order.FinalPrice)
}

// Price 100, discount 10 per unit, quantity 2
func TestOrderComputeTotalsSingleItem(t *testing.T) {
	order := Order{
		Items: []OrderItem{{ProductID: 1, Quantity: 2, UnitPrice: 100, Discount: 10}},
	}
	order.ComputeTotals()

	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, 20.0, order.DiscountApplied)
	assert.Equal(t, 180.0, order.FinalPrice)
	assert.Equal(t, order.TotalPrice-order.DiscountApplied, order.FinalPrice)
}

func TestOrderComputeTotalsEmpty(t *testing.T) {
	var order Order
	order.ComputeTotals()

	assert.Zero(t, order.TotalPrice)
	assert.Zero(t, order.DiscountApplied)
	assert.Zero(t, order.FinalPrice)
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, IsValidOrderStatus(status), status)
	}
	for _, status := range []string{"", "returned", "confirmed", "Pending", "done"} {
		assert.False(t, IsValidOrderStatus(status), status)
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, status := range []string{"pending", "paid", "failed"} {
		assert.True(t, IsValidPaymentStatus(status), status)
	}
	for _, status := range []string{"", "refunded", "Paid"} {
		assert.False(t, IsValidPaymentStatus(status), status)
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod("cash"))
	assert.True(t, IsValidPaymentMethod("upi"))
	assert.False(t, IsValidPaymentMethod("card"))
	assert.False(t, IsValidPaymentMethod(""))
}
