package domain

import (
	"context"
	"time"

	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	"github.com/vyapari/gstbill/pkg/db/pagination"
)

type ItemInput struct {
	ProductID string  `json:"product_id"`
	Qty       float64 `json:"qty"`
}

type TransportInput struct {
	Mode            compliancedomain.TransportMode `json:"mode"`
	VehicleNumber   string                         `json:"vehicle_number"`
	DistanceKm      int                            `json:"distance_km"`
	TransporterID   string                         `json:"transporter_id"`
	OverDimensional bool                           `json:"over_dimensional"`
	PortCode        string                         `json:"port_code"`
}

type CreateInvoiceRequest struct {
	CustomerID     string         `json:"customer_id"`
	BuyerName      string         `json:"buyer_name"`
	BuyerGSTIN     string         `json:"buyer_gstin"`
	BuyerStateCode string         `json:"buyer_state_code"`
	BuyerAddress   string         `json:"buyer_address"`
	Items          []ItemInput    `json:"items"`
	Discount       float64        `json:"discount"`
	PaymentMode    PaymentMode    `json:"payment_mode"`
	Transport      TransportInput `json:"transport"`

	// OverrideCredit acknowledges an EXCEEDED credit assessment; without it
	// a CREDIT invoice for an over-limit customer is refused.
	OverrideCredit bool `json:"override_credit"`
}

// Preview is the priced cart before anything is written: enriched items,
// totals, the e-Way assessment and the customer's credit standing.
type Preview struct {
	Items      []gstdomain.LineItem             `json:"items"`
	Totals     gstdomain.InvoiceTotals          `json:"totals"`
	InterState bool                             `json:"inter_state"`
	Eway       compliancedomain.EwayAssessment  `json:"eway"`
	Credit     *customerdomain.CreditAssessment `json:"credit,omitempty"`
	RateGroups []gstdomain.RateSummary          `json:"rate_groups"`
}

type InvoiceResponse struct {
	Invoice Invoice                          `json:"invoice"`
	Eway    compliancedomain.EwayAssessment  `json:"eway"`
	Credit  *customerdomain.CreditAssessment `json:"credit,omitempty"`
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status        InvoiceStatus `form:"status"`
	CustomerID    string        `form:"customer_id"`
	InvoiceNumber string        `form:"invoice_number"`
	From          *time.Time    `form:"from" time_format:"2006-01-02"`
	To            *time.Time    `form:"to" time_format:"2006-01-02"`
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type DailySalesReport struct {
	Date         string  `json:"date"`
	InvoiceCount int64   `json:"invoice_count"`
	Subtotal     float64 `json:"subtotal"`
	TotalTax     float64 `json:"total_tax"`
	GrandTotal   float64 `json:"grand_total"`
}

type PaymentModeBreakdown struct {
	PaymentMode  PaymentMode `json:"payment_mode"`
	InvoiceCount int64       `json:"invoice_count"`
	GrandTotal   float64     `json:"grand_total"`
}

type GSTSummaryRow struct {
	GSTRate      float64 `json:"gst_rate"`
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
}

type Service interface {
	// Preview prices the cart without persisting anything.
	Preview(ctx context.Context, req CreateInvoiceRequest) (Preview, error)

	// Create prices the cart and, in one transaction, allocates the invoice
	// number, writes the invoice and items, deducts stock, and books credit.
	Create(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)

	Get(ctx context.Context, id string) (Invoice, error)
	GetByNumber(ctx context.Context, number string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)

	// Cancel restores stock and reverses booked credit.
	Cancel(ctx context.Context, id string) (Invoice, error)

	// AttachEwayBill records the 12-digit number issued by the portal.
	AttachEwayBill(ctx context.Context, id string, number string) (Invoice, error)

	DailySales(ctx context.Context, day time.Time) (DailySalesReport, error)
	GSTSummary(ctx context.Context, from, to time.Time) ([]GSTSummaryRow, error)
	PaymentBreakdown(ctx context.Context, from, to time.Time) ([]PaymentModeBreakdown, error)
}
