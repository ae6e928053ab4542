package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Status        InvoiceStatus
	CustomerID    *snowflake.ID
	InvoiceNumber string
	From          *time.Time
	To            *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice, items []InvoiceItem) error
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByNumber(ctx context.Context, db *gorm.DB, number string) (*Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter, page pagination.Pagination) ([]Invoice, error)

	// NextSequence increments and returns the per-financial-year counter.
	// Callers run it inside the same transaction as the insert.
	NextSequence(ctx context.Context, db *gorm.DB, financialYear string) (int64, error)

	SumDailySales(ctx context.Context, db *gorm.DB, dayStart, dayEnd time.Time) (DailySalesReport, error)
	SumByGSTRate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]GSTSummaryRow, error)
	SumByPaymentMode(ctx context.Context, db *gorm.DB, from, to time.Time) ([]PaymentModeBreakdown, error)
}
