// Package seed creates the bootstrap rows the billing path expects on a
// fresh database. It runs after migration and is idempotent.
package seed

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	pkgdb "github.com/vyapari/gstbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(func(db *gorm.DB, log *zap.Logger) error {
		return EnsureInvoiceSequence(db, log, time.Now().UTC())
	}),
)

// EnsureInvoiceSequence creates the counter row for the financial year that
// contains now, so the first sale of the year starts from a known row.
func EnsureInvoiceSequence(db *gorm.DB, log *zap.Logger, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	fy := invoicedomain.FinancialYear(now)
	ctx := context.Background()

	var seq invoicedomain.InvoiceSequence
	err := db.WithContext(ctx).Where("financial_year = ?", fy).First(&seq).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	seq = invoicedomain.InvoiceSequence{FinancialYear: fy, Last: 0}
	if err := db.WithContext(ctx).Create(&seq).Error; err != nil {
		// Lost the race to another instance starting up.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	log.Info("seeded invoice sequence", zap.String("financial_year", fy))
	return nil
}
