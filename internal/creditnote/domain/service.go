package domain

import (
	"context"
	"time"

	"github.com/vyapari/gstbill/pkg/db/pagination"
)

type ReturnItemInput struct {
	ProductID string  `json:"product_id"`
	Qty       float64 `json:"qty"`
}

type CreateCreditNoteRequest struct {
	InvoiceID     string            `json:"-"`
	Items         []ReturnItemInput `json:"items"`
	Reason        Reason            `json:"reason"`
	ReasonDetails string            `json:"reason_details"`

	// RestoreStock defaults to true; damaged goods are returned with false
	// so they never re-enter the sellable count.
	RestoreStock *bool `json:"restore_stock"`
}

type ListCreditNoteRequest struct {
	pagination.Pagination
	Status     CreditNoteStatus `form:"status"`
	CustomerID string           `form:"customer_id"`
	From       *time.Time       `form:"from" time_format:"2006-01-02"`
	To         *time.Time       `form:"to" time_format:"2006-01-02"`
}

type ReasonBreakdown struct {
	Reason     Reason  `json:"reason"`
	Count      int64   `json:"count"`
	GrandTotal float64 `json:"grand_total"`
}

// Summary aggregates active credit notes over a date range.
type Summary struct {
	Count      int64             `json:"count"`
	Subtotal   float64           `json:"subtotal"`
	CGSTTotal  float64           `json:"cgst_total"`
	SGSTTotal  float64           `json:"sgst_total"`
	IGSTTotal  float64           `json:"igst_total"`
	GrandTotal float64           `json:"grand_total"`
	ByReason   []ReasonBreakdown `gorm:"-" json:"by_reason"`
}

type Service interface {
	// Create issues a credit note against an issued invoice: recompute line
	// values at the invoice's frozen rates, restore stock unless told not
	// to, and unwind booked credit for CREDIT sales. One transaction.
	Create(ctx context.Context, req CreateCreditNoteRequest) (CreditNote, error)

	Get(ctx context.Context, id string) (CreditNote, error)
	List(ctx context.Context, req ListCreditNoteRequest) ([]CreditNote, error)

	// Returnable lists what remains returnable per line of an invoice,
	// netting out earlier active credit notes.
	Returnable(ctx context.Context, invoiceID string) ([]ReturnableItem, error)

	// Cancel reverses the note: deduct restored stock and re-book credit.
	Cancel(ctx context.Context, id string) (CreditNote, error)

	Summary(ctx context.Context, from, to time.Time) (Summary, error)
}
