package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Product, error)
	ListLowStock(ctx context.Context, db *gorm.DB, threshold float64, page pagination.Pagination) ([]Product, error)

	// AdjustStock applies the delta in a single guarded UPDATE; it returns
	// ErrInsufficientStock when the delta would drive stock negative.
	AdjustStock(ctx context.Context, db *gorm.DB, id snowflake.ID, delta float64) error
	InsertStockEntry(ctx context.Context, db *gorm.DB, entry *StockEntry) error
	ListStockEntries(ctx context.Context, db *gorm.DB, productID snowflake.ID, page pagination.Pagination) ([]StockEntry, error)
}
