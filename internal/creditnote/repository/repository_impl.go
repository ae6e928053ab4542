package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/creditnote/domain"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, note *domain.CreditNote, items []domain.CreditNoteItem) error {
	if err := db.WithContext(ctx).Create(note).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, note *domain.CreditNote) error {
	return db.WithContext(ctx).Save(note).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CreditNote, error) {
	var note domain.CreditNote
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, noteID snowflake.ID) ([]domain.CreditNoteItem, error) {
	var items []domain.CreditNoteItem
	err := db.WithContext(ctx).
		Where("credit_note_id = ?", noteID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.CreditNote, error) {
	var notes []domain.CreditNote
	stmt := db.WithContext(ctx).Model(&domain.CreditNote{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		stmt = stmt.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("created_at < ?", *filter.To)
	}
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repo) ReturnedQtyByProduct(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]float64, error) {
	type row struct {
		ProductID snowflake.ID `gorm:"column:product_id"`
		Qty       float64      `gorm:"column:qty"`
	}
	var rows []row
	err := db.WithContext(ctx).Raw(
		`SELECT ci.product_id AS product_id, COALESCE(SUM(ci.qty), 0) AS qty
		 FROM credit_note_items ci
		 JOIN credit_notes cn ON cn.id = ci.credit_note_id
		 WHERE cn.invoice_id = ? AND cn.status = ?
		 GROUP BY ci.product_id`,
		invoiceID,
		domain.CreditNoteStatusActive,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	returned := make(map[snowflake.ID]float64, len(rows))
	for _, item := range rows {
		returned[item.ProductID] = item.Qty
	}
	return returned, nil
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, financialYear string) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE credit_note_sequences SET last = last + 1 WHERE financial_year = ?`,
		financialYear,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		seq := domain.CreditNoteSequence{FinancialYear: financialYear, Last: 1}
		if err := db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq domain.CreditNoteSequence
	if err := db.WithContext(ctx).Where("financial_year = ?", financialYear).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Last, nil
}

func (r *repo) SumByReason(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.ReasonBreakdown, error) {
	var rows []domain.ReasonBreakdown
	err := db.WithContext(ctx).Raw(
		`SELECT reason AS reason,
		        COUNT(*) AS count,
		        COALESCE(SUM(grand_total), 0) AS grand_total
		 FROM credit_notes
		 WHERE status = ? AND created_at >= ? AND created_at < ?
		 GROUP BY reason
		 ORDER BY reason`,
		domain.CreditNoteStatusActive,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) SumTotals(ctx context.Context, db *gorm.DB, from, to time.Time) (domain.Summary, error) {
	var summary domain.Summary
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count,
		        COALESCE(SUM(subtotal), 0) AS subtotal,
		        COALESCE(SUM(cgst_total), 0) AS cgst_total,
		        COALESCE(SUM(sgst_total), 0) AS sgst_total,
		        COALESCE(SUM(igst_total), 0) AS igst_total,
		        COALESCE(SUM(grand_total), 0) AS grand_total
		 FROM credit_notes
		 WHERE status = ? AND created_at >= ? AND created_at < ?`,
		domain.CreditNoteStatusActive,
		from,
		to,
	).Scan(&summary).Error
	if err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}
