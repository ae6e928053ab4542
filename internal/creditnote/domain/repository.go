package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     CreditNoteStatus
	CustomerID *snowflake.ID
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, note *CreditNote, items []CreditNoteItem) error
	Update(ctx context.Context, db *gorm.DB, note *CreditNote) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CreditNote, error)
	FindItems(ctx context.Context, db *gorm.DB, noteID snowflake.ID) ([]CreditNoteItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]CreditNote, error)

	// ReturnedQtyByProduct sums returned quantities across active credit
	// notes of one invoice, keyed by product.
	ReturnedQtyByProduct(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]float64, error)

	// NextSequence increments and returns the per-financial-year counter.
	// Callers run it inside the same transaction as the insert.
	NextSequence(ctx context.Context, db *gorm.DB, financialYear string) (int64, error)

	SumByReason(ctx context.Context, db *gorm.DB, from, to time.Time) ([]ReasonBreakdown, error)
	SumTotals(ctx context.Context, db *gorm.DB, from, to time.Time) (Summary, error)
}
