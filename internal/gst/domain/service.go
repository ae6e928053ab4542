package domain

// Calculator prices carts under the Indian GST regime.
//
// Intra-state (buyer state equals seller state, or unknown): CGST + SGST,
// each half the GST rate. Inter-state: IGST at the full rate. The decision is
// made once per cart; an invoice never mixes CGST/SGST lines with IGST lines.
type Calculator interface {
	// Compute validates the cart, allocates the discount, splits tax per
	// line and aggregates invoice totals. Pure and idempotent.
	Compute(cart Cart) (ComputeResult, error)

	// Split breaks a single taxable value into its CGST/SGST or IGST parts.
	Split(taxableValue, ratePercent float64, sameState bool) TaxSplit

	// SameState reports whether a buyer state code is an intra-state supply.
	SameState(buyerStateCode string) bool

	// SummaryByRate groups priced items by GST slab, sorted by rate.
	SummaryByRate(items []LineItem) []RateSummary
}
