package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByGSTIN(ctx context.Context, db *gorm.DB, gstin string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)

	// AdjustCreditBalance applies the delta in a single UPDATE so concurrent
	// invoice writers never lose an increment.
	AdjustCreditBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, delta float64) error
}
