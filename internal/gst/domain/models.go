// Package domain defines the cart and tax shapes the GST engine computes on.
package domain

// LineItem is one cart line. The input fields come from the product catalog
// at scan time; the derived fields are filled in by the calculator.
type LineItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	Qty         float64 `json:"qty"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	GSTRate     float64 `json:"gst_rate"`

	// Derived. Exactly one of (CGST+SGST) or IGST is non-zero when
	// GSTRate > 0; all are zero for exempt goods.
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	Total        float64 `json:"total"`
}

// Cart is the calculator input. Item order is display-only.
type Cart struct {
	Items []LineItem `json:"items"`

	// Discount is a flat amount in rupees, allocated pro-rata across items
	// before tax is computed.
	Discount float64 `json:"discount"`

	// BuyerStateCode decides intra vs inter-state supply for the whole
	// invoice. Empty means a walk-in customer, treated as intra-state.
	BuyerStateCode string `json:"buyer_state_code,omitempty"`
}

// TaxSplit is the CGST/SGST or IGST breakup of a single taxable value.
type TaxSplit struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
}

// InvoiceTotals aggregates a priced cart.
// GrandTotal == Subtotal + CGSTTotal + SGSTTotal + IGSTTotal.
type InvoiceTotals struct {
	Subtotal   float64 `json:"subtotal"`
	CGSTTotal  float64 `json:"cgst_total"`
	SGSTTotal  float64 `json:"sgst_total"`
	IGSTTotal  float64 `json:"igst_total"`
	TotalTax   float64 `json:"total_tax"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeResult is a fully priced cart: enriched items plus totals.
type ComputeResult struct {
	Items      []LineItem    `json:"items"`
	Totals     InvoiceTotals `json:"totals"`
	InterState bool          `json:"inter_state"`
}

// RateSummary groups tax amounts by GST slab for the invoice footer and
// regulatory exports.
type RateSummary struct {
	GSTRate      float64 `json:"gst_rate"`
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
}
