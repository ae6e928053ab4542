// Package domain contains persistence models and contracts for invoicing.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
)

// FinancialYear labels the April-to-March year a timestamp falls in, e.g.
// "2025-26" for anything from 2025-04-01 through 2026-03-31. Invoice numbers
// and sequence rows are scoped by this label.
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// PaymentMode is how the buyer settles the invoice. CREDIT books the grand
// total onto the customer's running balance.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "CASH"
	PaymentCard   PaymentMode = "CARD"
	PaymentUPI    PaymentMode = "UPI"
	PaymentCredit PaymentMode = "CREDIT"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentCredit:
		return true
	}
	return false
}

// Invoice is a finalized tax invoice. Monetary columns are the rounded
// values the buyer saw; they are never recomputed after issue.
type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"not null;uniqueIndex" json:"invoice_number"`
	Status        InvoiceStatus `gorm:"type:text;not null;default:'ISSUED'" json:"status"`

	CustomerID     *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	BuyerName      string        `json:"buyer_name,omitempty"`
	BuyerGSTIN     string        `json:"buyer_gstin,omitempty"`
	BuyerStateCode string        `json:"buyer_state_code,omitempty"`
	BuyerAddress   string        `json:"buyer_address,omitempty"`

	PaymentMode PaymentMode `gorm:"type:text;not null" json:"payment_mode"`
	InterState  bool        `gorm:"not null" json:"inter_state"`
	Subtotal    float64     `gorm:"not null" json:"subtotal"`
	CGSTTotal   float64     `gorm:"not null" json:"cgst_total"`
	SGSTTotal   float64     `gorm:"not null" json:"sgst_total"`
	IGSTTotal   float64     `gorm:"not null" json:"igst_total"`
	TotalTax    float64     `gorm:"not null" json:"total_tax"`
	Discount    float64     `gorm:"not null" json:"discount"`
	GrandTotal  float64     `gorm:"not null" json:"grand_total"`

	TransportMode   compliancedomain.TransportMode `gorm:"type:text" json:"transport_mode,omitempty"`
	VehicleNumber   string                         `json:"vehicle_number,omitempty"`
	DistanceKm      int                            `gorm:"not null;default:0" json:"distance_km"`
	TransporterID   string                         `json:"transporter_id,omitempty"`
	OverDimensional bool                           `gorm:"not null;default:false" json:"over_dimensional"`
	PortCode        string                         `json:"port_code,omitempty"`

	EwayRequired     bool   `gorm:"not null;default:false" json:"eway_required"`
	EwayValidityDays int    `gorm:"not null;default:0" json:"eway_validity_days"`
	EwayBillNumber   string `gorm:"index" json:"eway_bill_number,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"-" json:"items,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a line on an invoice with its tax breakup frozen at issue
// time.
type InvoiceItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`

	ProductName string  `gorm:"not null" json:"product_name"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	Qty         float64 `gorm:"not null" json:"qty"`
	Unit        string  `json:"unit"`
	Rate        float64 `gorm:"not null" json:"rate"`
	GSTRate     float64 `gorm:"not null" json:"gst_rate"`

	TaxableValue float64 `gorm:"not null" json:"taxable_value"`
	CGST         float64 `gorm:"not null" json:"cgst"`
	SGST         float64 `gorm:"not null" json:"sgst"`
	IGST         float64 `gorm:"not null" json:"igst"`
	Total        float64 `gorm:"not null" json:"total"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceSequence allocates invoice numbers per financial year.
type InvoiceSequence struct {
	FinancialYear string `gorm:"primaryKey" json:"financial_year"`
	Last          int64  `gorm:"not null" json:"last"`
}

func (InvoiceSequence) TableName() string { return "invoice_sequences" }
