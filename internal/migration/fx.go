// Package migration creates the schema on startup so a fresh install is
// usable out of the box across all supported database engines.
package migration

import (
	creditnotedomain "github.com/vyapari/gstbill/internal/creditnote/domain"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	productdomain "github.com/vyapari/gstbill/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
		err := conn.AutoMigrate(
			&customerdomain.Customer{},
			&productdomain.Product{},
			&productdomain.StockEntry{},
			&invoicedomain.Invoice{},
			&invoicedomain.InvoiceItem{},
			&invoicedomain.InvoiceSequence{},
			&creditnotedomain.CreditNote{},
			&creditnotedomain.CreditNoteItem{},
			&creditnotedomain.CreditNoteSequence{},
		)
		if err != nil {
			return err
		}
		log.Info("schema migrated")
		return nil
	}),
)
