package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vyapari/gstbill/internal/config"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CalculatorParam struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type calculator struct {
	sellerStateCode string
	log             *zap.Logger
}

func NewCalculator(p CalculatorParam) gstdomain.Calculator {
	return &calculator{
		sellerStateCode: strings.TrimSpace(p.Cfg.SellerStateCode),
		log:             p.Log.Named("gst.calculator"),
	}
}

func (c *calculator) SameState(buyerStateCode string) bool {
	buyerStateCode = strings.TrimSpace(buyerStateCode)
	// Unknown buyer state defaults to intra-state: the common walk-in case.
	if buyerStateCode == "" {
		return true
	}
	return buyerStateCode == c.sellerStateCode
}

func (c *calculator) Split(taxableValue, ratePercent float64, sameState bool) gstdomain.TaxSplit {
	split := splitUnrounded(taxableValue, ratePercent, sameState)
	return gstdomain.TaxSplit{
		CGST: round2(split.CGST),
		SGST: round2(split.SGST),
		IGST: round2(split.IGST),
	}
}

func (c *calculator) Compute(cart gstdomain.Cart) (gstdomain.ComputeResult, error) {
	if len(cart.Items) == 0 {
		return gstdomain.ComputeResult{}, gstdomain.ErrEmptyCart
	}

	for _, item := range cart.Items {
		if item.Qty <= 0 {
			return gstdomain.ComputeResult{}, fmt.Errorf("%w: quantity must be positive for %s", gstdomain.ErrInvalidLineItem, itemLabel(item))
		}
		if item.Rate < 0 {
			return gstdomain.ComputeResult{}, fmt.Errorf("%w: rate cannot be negative for %s", gstdomain.ErrInvalidLineItem, itemLabel(item))
		}
		if item.GSTRate < 0 {
			return gstdomain.ComputeResult{}, fmt.Errorf("%w: gst rate cannot be negative for %s", gstdomain.ErrInvalidLineItem, itemLabel(item))
		}
	}

	taxable, err := allocateDiscount(cart.Items, cart.Discount)
	if err != nil {
		return gstdomain.ComputeResult{}, err
	}

	sameState := c.SameState(cart.BuyerStateCode)

	items := make([]gstdomain.LineItem, len(cart.Items))
	var subtotal, cgstTotal, sgstTotal, igstTotal float64

	for i, item := range cart.Items {
		value := taxable[i]
		split := splitUnrounded(value, item.GSTRate, sameState)

		// Totals accumulate unrounded values and round once at the end,
		// so per-line rounding drift never compounds.
		subtotal += value
		cgstTotal += split.CGST
		sgstTotal += split.SGST
		igstTotal += split.IGST

		enriched := item
		enriched.TaxableValue = round2(value)
		enriched.CGST = round2(split.CGST)
		enriched.SGST = round2(split.SGST)
		enriched.IGST = round2(split.IGST)
		enriched.Total = round2(value + split.CGST + split.SGST + split.IGST)
		items[i] = enriched
	}

	totalTax := cgstTotal + sgstTotal + igstTotal
	totals := gstdomain.InvoiceTotals{
		Subtotal:   round2(subtotal),
		CGSTTotal:  round2(cgstTotal),
		SGSTTotal:  round2(sgstTotal),
		IGSTTotal:  round2(igstTotal),
		TotalTax:   round2(totalTax),
		Discount:   round2(cart.Discount),
		GrandTotal: round2(subtotal + totalTax),
	}

	return gstdomain.ComputeResult{
		Items:      items,
		Totals:     totals,
		InterState: !sameState,
	}, nil
}

func (c *calculator) SummaryByRate(items []gstdomain.LineItem) []gstdomain.RateSummary {
	byRate := map[float64]*gstdomain.RateSummary{}
	for _, item := range items {
		summary, ok := byRate[item.GSTRate]
		if !ok {
			summary = &gstdomain.RateSummary{GSTRate: item.GSTRate}
			byRate[item.GSTRate] = summary
		}
		summary.TaxableValue += item.TaxableValue
		summary.CGST += item.CGST
		summary.SGST += item.SGST
		summary.IGST += item.IGST
	}

	rates := make([]float64, 0, len(byRate))
	for rate := range byRate {
		rates = append(rates, rate)
	}
	sort.Float64s(rates)

	result := make([]gstdomain.RateSummary, 0, len(rates))
	for _, rate := range rates {
		s := byRate[rate]
		result = append(result, gstdomain.RateSummary{
			GSTRate:      s.GSTRate,
			TaxableValue: round2(s.TaxableValue),
			CGST:         round2(s.CGST),
			SGST:         round2(s.SGST),
			IGST:         round2(s.IGST),
		})
	}
	return result
}

// allocateDiscount spreads a flat discount across items pro-rata to their
// pre-discount value and returns each item's discounted taxable value.
func allocateDiscount(items []gstdomain.LineItem, discount float64) ([]float64, error) {
	values := make([]float64, len(items))
	var subtotal float64
	for i, item := range items {
		values[i] = item.Qty * item.Rate
		subtotal += values[i]
	}

	if discount <= 0 || subtotal == 0 {
		return values, nil
	}
	if discount > subtotal {
		return nil, fmt.Errorf("%w: discount %.2f exceeds subtotal %.2f", gstdomain.ErrInvalidDiscount, discount, subtotal)
	}

	for i := range values {
		values[i] -= values[i] / subtotal * discount
	}
	return values, nil
}

func splitUnrounded(taxableValue, ratePercent float64, sameState bool) gstdomain.TaxSplit {
	if ratePercent <= 0 {
		return gstdomain.TaxSplit{}
	}
	if sameState {
		half := taxableValue * ratePercent / 200
		return gstdomain.TaxSplit{CGST: half, SGST: half}
	}
	return gstdomain.TaxSplit{IGST: taxableValue * ratePercent / 100}
}

func itemLabel(item gstdomain.LineItem) string {
	name := strings.TrimSpace(item.ProductName)
	if name == "" {
		return "item"
	}
	return name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
