// Package domain defines the GSTR-1 return shapes. Field names follow the
// GST portal's offline-tool JSON, so an exported file can be uploaded as-is.
package domain

import "context"

// ItemDetail is the rate-wise tax breakup inside a B2B invoice line.
type ItemDetail struct {
	Rate         float64 `json:"rt"`
	TaxableValue float64 `json:"txval"`
	CGST         float64 `json:"camt"`
	SGST         float64 `json:"samt"`
	IGST         float64 `json:"iamt"`
	Cess         float64 `json:"csamt"`
}

type B2BItem struct {
	Num    int        `json:"num"`
	Detail ItemDetail `json:"itm_det"`
}

type B2BInvoice struct {
	Number        string    `json:"inum"`
	Date          string    `json:"idt"`
	Value         float64   `json:"val"`
	PlaceOfSupply string    `json:"pos"`
	ReverseCharge string    `json:"rchrg"`
	InvoiceType   string    `json:"inv_typ"`
	Items         []B2BItem `json:"itms"`
}

// B2BEntry groups a registered buyer's invoices under their GSTIN.
type B2BEntry struct {
	CTIN     string       `json:"ctin"`
	Invoices []B2BInvoice `json:"inv"`
}

// B2CSEntry is a consumer-sales summary row, aggregated per place of
// supply and rate.
type B2CSEntry struct {
	SupplyType    string  `json:"sply_ty"`
	PlaceOfSupply string  `json:"pos"`
	Type          string  `json:"typ"`
	Rate          float64 `json:"rt"`
	TaxableValue  float64 `json:"txval"`
	CGST          float64 `json:"camt"`
	SGST          float64 `json:"samt"`
	IGST          float64 `json:"iamt"`
	Cess          float64 `json:"csamt"`
}

// Export is one filing period's outward-supply return.
type Export struct {
	GSTIN        string      `json:"gstin"`
	FilingPeriod string      `json:"fp"`
	GrossTurn    float64     `json:"gt"`
	B2B          []B2BEntry  `json:"b2b"`
	B2CS         []B2CSEntry `json:"b2cs"`
}

type Service interface {
	// Export builds the return for a MMYYYY filing period.
	Export(ctx context.Context, period string) (Export, error)
}
