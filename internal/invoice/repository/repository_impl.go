package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/invoice/domain"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	if err := db.WithContext(ctx).Create(invoice).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Save(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, number string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("invoice_number = ?", number).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.InvoiceNumber != "" {
		stmt = stmt.Where("invoice_number = ?", filter.InvoiceNumber)
	}
	if filter.From != nil {
		stmt = stmt.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("created_at < ?", *filter.To)
	}
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, financialYear string) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoice_sequences SET last = last + 1 WHERE financial_year = ?`,
		financialYear,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		seq := domain.InvoiceSequence{FinancialYear: financialYear, Last: 1}
		if err := db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq domain.InvoiceSequence
	if err := db.WithContext(ctx).Where("financial_year = ?", financialYear).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Last, nil
}

func (r *repo) SumDailySales(ctx context.Context, db *gorm.DB, dayStart, dayEnd time.Time) (domain.DailySalesReport, error) {
	var report domain.DailySalesReport
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS invoice_count,
		        COALESCE(SUM(subtotal), 0) AS subtotal,
		        COALESCE(SUM(total_tax), 0) AS total_tax,
		        COALESCE(SUM(grand_total), 0) AS grand_total
		 FROM invoices
		 WHERE status = ? AND created_at >= ? AND created_at < ?`,
		domain.InvoiceStatusIssued,
		dayStart,
		dayEnd,
	).Scan(&report).Error
	if err != nil {
		return domain.DailySalesReport{}, err
	}
	return report, nil
}

func (r *repo) SumByGSTRate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.GSTSummaryRow, error) {
	var rows []domain.GSTSummaryRow
	err := db.WithContext(ctx).Raw(
		`SELECT ii.gst_rate AS gst_rate,
		        COALESCE(SUM(ii.taxable_value), 0) AS taxable_value,
		        COALESCE(SUM(ii.cgst), 0) AS cgst,
		        COALESCE(SUM(ii.sgst), 0) AS sgst,
		        COALESCE(SUM(ii.igst), 0) AS igst
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE i.status = ? AND i.created_at >= ? AND i.created_at < ?
		 GROUP BY ii.gst_rate
		 ORDER BY ii.gst_rate`,
		domain.InvoiceStatusIssued,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) SumByPaymentMode(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.PaymentModeBreakdown, error) {
	var rows []domain.PaymentModeBreakdown
	err := db.WithContext(ctx).Raw(
		`SELECT payment_mode AS payment_mode,
		        COUNT(*) AS invoice_count,
		        COALESCE(SUM(grand_total), 0) AS grand_total
		 FROM invoices
		 WHERE status = ? AND created_at >= ? AND created_at < ?
		 GROUP BY payment_mode
		 ORDER BY payment_mode`,
		domain.InvoiceStatusIssued,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
