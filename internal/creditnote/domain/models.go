// Package domain contains persistence models and contracts for credit notes,
// the return/refund documents issued against a tax invoice.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreditNoteStatus string

const (
	CreditNoteStatusActive    CreditNoteStatus = "ACTIVE"
	CreditNoteStatusCancelled CreditNoteStatus = "CANCELLED"
)

// Reason categorizes why goods came back. Unknown values are coerced to
// OTHER rather than rejected; the category is reporting metadata, not a
// validation gate.
type Reason string

const (
	ReasonReturn          Reason = "RETURN"
	ReasonDamage          Reason = "DAMAGE"
	ReasonPriceAdjustment Reason = "PRICE_ADJUSTMENT"
	ReasonOther           Reason = "OTHER"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonReturn, ReasonDamage, ReasonPriceAdjustment, ReasonOther:
		return true
	}
	return false
}

// Normalize maps any unrecognized reason to OTHER.
func (r Reason) Normalize() Reason {
	if r.Valid() {
		return r
	}
	return ReasonOther
}

// CreditNote reverses part or all of an issued invoice. Line values are
// recomputed from the original invoice's frozen rates and its intra/inter
// split, never from the current catalog.
type CreditNote struct {
	ID     snowflake.ID     `gorm:"primaryKey" json:"id"`
	Number string           `gorm:"not null;uniqueIndex" json:"number"`
	Status CreditNoteStatus `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`

	InvoiceID     snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	InvoiceNumber string        `gorm:"not null" json:"invoice_number"`
	CustomerID    *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	BuyerName     string        `json:"buyer_name,omitempty"`

	Reason        Reason `gorm:"type:text;not null" json:"reason"`
	ReasonDetails string `json:"reason_details,omitempty"`
	StockRestored bool   `gorm:"not null" json:"stock_restored"`

	InterState bool    `gorm:"not null" json:"inter_state"`
	Subtotal   float64 `gorm:"not null" json:"subtotal"`
	CGSTTotal  float64 `gorm:"not null" json:"cgst_total"`
	SGSTTotal  float64 `gorm:"not null" json:"sgst_total"`
	IGSTTotal  float64 `gorm:"not null" json:"igst_total"`
	GrandTotal float64 `gorm:"not null" json:"grand_total"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []CreditNoteItem `gorm:"-" json:"items,omitempty"`
}

func (CreditNote) TableName() string { return "credit_notes" }

type CreditNoteItem struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CreditNoteID snowflake.ID `gorm:"not null;index" json:"credit_note_id"`
	ProductID    snowflake.ID `gorm:"not null;index" json:"product_id"`

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

func (CreditNoteItem) TableName() string { return "credit_note_items" }

// CreditNoteSequence allocates credit note numbers per financial year.
type CreditNoteSequence struct {
	FinancialYear string `gorm:"primaryKey" json:"financial_year"`
	Last          int64  `gorm:"not null" json:"last"`
}

func (CreditNoteSequence) TableName() string { return "credit_note_sequences" }

// ReturnableItem is what is left to return on an invoice line once earlier
// active credit notes are accounted for.
type ReturnableItem struct {
	ProductID     snowflake.ID `json:"product_id"`
	ProductName   string       `json:"product_name"`
	HSNCode       string       `json:"hsn_code,omitempty"`
	Unit          string       `json:"unit"`
	Rate          float64      `json:"rate"`
	GSTRate       float64      `json:"gst_rate"`
	OriginalQty   float64      `json:"original_qty"`
	ReturnedQty   float64      `json:"returned_qty"`
	ReturnableQty float64      `json:"returnable_qty"`
}
