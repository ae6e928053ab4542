package service

import (
	"testing"

	"github.com/vyapari/gstbill/internal/config"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCalculator() gstdomain.Calculator {
	return NewCalculator(CalculatorParam{
		Cfg: config.Config{SellerStateCode: "32"},
		Log: zap.NewNop(),
	})
}

func TestCompute_IntraState(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "Widget", Qty: 2, Rate: 100, GSTRate: 18},
		},
		BuyerStateCode: "32",
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, 200.0, item.TaxableValue)
	assert.Equal(t, 18.0, item.CGST)
	assert.Equal(t, 18.0, item.SGST)
	assert.Equal(t, 0.0, item.IGST)
	assert.Equal(t, 236.0, item.Total)

	assert.Equal(t, 200.0, result.Totals.Subtotal)
	assert.Equal(t, 236.0, result.Totals.GrandTotal)
	assert.False(t, result.InterState)
}

func TestCompute_InterState(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "Widget", Qty: 2, Rate: 100, GSTRate: 18},
		},
		BuyerStateCode: "29",
	})
	require.NoError(t, err)

	item := result.Items[0]
	assert.Equal(t, 0.0, item.CGST)
	assert.Equal(t, 0.0, item.SGST)
	assert.Equal(t, 36.0, item.IGST)
	assert.Equal(t, 236.0, result.Totals.GrandTotal)
	assert.True(t, result.InterState)
}

func TestCompute_UnknownBuyerStateDefaultsIntraState(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{{ProductName: "Widget", Qty: 1, Rate: 100, GSTRate: 12}},
	})
	require.NoError(t, err)
	assert.False(t, result.InterState)
	assert.Equal(t, 6.0, result.Items[0].CGST)
	assert.Equal(t, 6.0, result.Items[0].SGST)
}

func TestCompute_ExemptGoods(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{{ProductName: "Fresh Produce", Qty: 3, Rate: 50, GSTRate: 0}},
	})
	require.NoError(t, err)

	item := result.Items[0]
	assert.Equal(t, 0.0, item.CGST)
	assert.Equal(t, 0.0, item.SGST)
	assert.Equal(t, 0.0, item.IGST)
	assert.Equal(t, 150.0, item.Total)
	assert.Equal(t, 150.0, result.Totals.GrandTotal)
}

func TestCompute_MixedRates(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "Soap", Qty: 1, Rate: 100, GSTRate: 18},
			{ProductName: "Sugar", Qty: 2, Rate: 40, GSTRate: 5},
			{ProductName: "Rice", Qty: 5, Rate: 60, GSTRate: 0},
		},
		BuyerStateCode: "32",
	})
	require.NoError(t, err)

	totals := result.Totals
	assert.Equal(t, 480.0, totals.Subtotal)
	assert.Equal(t, 11.0, totals.CGSTTotal) // 9 + 2
	assert.Equal(t, 11.0, totals.SGSTTotal)
	assert.Equal(t, 0.0, totals.IGSTTotal)
	assert.InDelta(t, totals.Subtotal+totals.CGSTTotal+totals.SGSTTotal+totals.IGSTTotal, totals.GrandTotal, 0.01)
}

func TestCompute_DiscountAllocatedProRata(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "A", Qty: 1, Rate: 300, GSTRate: 18},
			{ProductName: "B", Qty: 1, Rate: 100, GSTRate: 5},
		},
		Discount: 40,
	})
	require.NoError(t, err)

	// 400 pre-discount, 40 off: A carries 30, B carries 10.
	assert.Equal(t, 270.0, result.Items[0].TaxableValue)
	assert.Equal(t, 90.0, result.Items[1].TaxableValue)
	assert.Equal(t, 360.0, result.Totals.Subtotal)
	assert.InDelta(t, 360.0, result.Items[0].TaxableValue+result.Items[1].TaxableValue, 0.01)

	// Tax applies to the discounted values.
	assert.Equal(t, 24.3, result.Items[0].CGST)
	assert.Equal(t, 2.25, result.Items[1].CGST)
}

func TestCompute_DiscountExceedsSubtotal(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Compute(gstdomain.Cart{
		Items:    []gstdomain.LineItem{{ProductName: "A", Qty: 1, Rate: 100, GSTRate: 18}},
		Discount: 150,
	})
	assert.ErrorIs(t, err, gstdomain.ErrInvalidDiscount)
}

func TestCompute_EmptyCart(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Compute(gstdomain.Cart{})
	assert.ErrorIs(t, err, gstdomain.ErrEmptyCart)
}

func TestCompute_InvalidLineItems(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{{ProductName: "Bad Qty", Qty: 0, Rate: 100, GSTRate: 18}},
	})
	require.ErrorIs(t, err, gstdomain.ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "Bad Qty")

	_, err = calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{{ProductName: "Bad Rate", Qty: 1, Rate: -10, GSTRate: 18}},
	})
	require.ErrorIs(t, err, gstdomain.ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "Bad Rate")
}

func TestCompute_Idempotent(t *testing.T) {
	calc := newTestCalculator()

	cart := gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "A", Qty: 3, Rate: 33.33, GSTRate: 18},
			{ProductName: "B", Qty: 7, Rate: 14.29, GSTRate: 12},
		},
		Discount:       25,
		BuyerStateCode: "29",
	}

	first, err := calc.Compute(cart)
	require.NoError(t, err)
	second, err := calc.Compute(cart)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_RoundingInvariant(t *testing.T) {
	calc := newTestCalculator()

	// Prices chosen to produce repeating decimals per line.
	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "A", Qty: 3, Rate: 9.99, GSTRate: 18},
			{ProductName: "B", Qty: 1, Rate: 0.33, GSTRate: 5},
			{ProductName: "C", Qty: 7, Rate: 1.01, GSTRate: 28},
		},
		Discount: 1.11,
	})
	require.NoError(t, err)

	totals := result.Totals
	assert.InDelta(t, totals.Subtotal+totals.CGSTTotal+totals.SGSTTotal+totals.IGSTTotal, totals.GrandTotal, 0.01)
}

func TestSplit(t *testing.T) {
	calc := newTestCalculator()

	intra := calc.Split(1000, 18, true)
	assert.Equal(t, gstdomain.TaxSplit{CGST: 90, SGST: 90}, intra)

	inter := calc.Split(1000, 18, false)
	assert.Equal(t, gstdomain.TaxSplit{IGST: 180}, inter)

	exempt := calc.Split(1000, 0, true)
	assert.Equal(t, gstdomain.TaxSplit{}, exempt)
}

func TestSummaryByRate(t *testing.T) {
	calc := newTestCalculator()

	result, err := calc.Compute(gstdomain.Cart{
		Items: []gstdomain.LineItem{
			{ProductName: "A", Qty: 1, Rate: 100, GSTRate: 18},
			{ProductName: "B", Qty: 1, Rate: 200, GSTRate: 18},
			{ProductName: "C", Qty: 1, Rate: 50, GSTRate: 5},
		},
	})
	require.NoError(t, err)

	summary := calc.SummaryByRate(result.Items)
	require.Len(t, summary, 2)
	assert.Equal(t, 5.0, summary[0].GSTRate)
	assert.Equal(t, 50.0, summary[0].TaxableValue)
	assert.Equal(t, 18.0, summary[1].GSTRate)
	assert.Equal(t, 300.0, summary[1].TaxableValue)
	assert.Equal(t, 27.0, summary[1].CGST)
}
