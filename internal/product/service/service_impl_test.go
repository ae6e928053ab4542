package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/product/domain"
	"github.com/vyapari/gstbill/internal/product/repository"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.StockEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		GSTCfg: config.NewStaticGSTConfigHolder(config.DefaultGSTConfig()),
		Repo:   repository.Provide(),
	})
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Code:    "soap-01",
		Name:    "Bath Soap",
		HSNCode: "3401",
		Rate:    45,
		GSTRate: 18,
		Stock:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "SOAP-01", created.Code)
	assert.Equal(t, "PCS", created.Unit)
	assert.True(t, created.Active)

	// Opening stock lands in the ledger.
	ledger, err := svc.StockLedger(ctx, created.ID.String(), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, domain.StockPurchase, ledger[0].Kind)
	assert.Equal(t, 100.0, ledger[0].Delta)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "No Code"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.Create(ctx, domain.CreateRequest{Code: "X", Name: "Bad Slab", GSTRate: 17})
	assert.ErrorIs(t, err, domain.ErrInvalidGSTRate)

	_, err = svc.Create(ctx, domain.CreateRequest{Code: "X", Name: "Bad Rate", Rate: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = svc.Create(ctx, domain.CreateRequest{Code: "DUP", Name: "First", GSTRate: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Code: "dup", Name: "Second", GSTRate: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestUpdateAndArchive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Code: "PEN-01", Name: "Ball Pen", GSTRate: 12, Rate: 10})
	require.NoError(t, err)

	rate := 12.5
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID.String(), Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Rate)

	archived, err := svc.Archive(ctx, created.ID.String())
	require.NoError(t, err)
	assert.False(t, archived.Active)
}

func TestAdjustStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Code: "RICE-01", Name: "Rice", Unit: "KG", GSTRate: 5, Rate: 60, Stock: 20})
	require.NoError(t, err)

	after, err := svc.AdjustStock(ctx, domain.AdjustStockRequest{
		ID:    created.ID.String(),
		Kind:  domain.StockPurchase,
		Delta: 30,
		Note:  "weekly replenishment",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, after.Stock)

	// Cannot go below zero.
	_, err = svc.AdjustStock(ctx, domain.AdjustStockRequest{ID: created.ID.String(), Delta: -80})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.AdjustStock(ctx, domain.AdjustStockRequest{ID: created.ID.String(), Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidStockDelta)

	ledger, err := svc.StockLedger(ctx, created.ID.String(), pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Code: "A1", Name: "Almonds", HSNCode: "0802", GSTRate: 5})
	require.NoError(t, err)
	created, err := svc.Create(ctx, domain.CreateRequest{Code: "B1", Name: "Biscuits", HSNCode: "1905", GSTRate: 18})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, created.ID.String())
	require.NoError(t, err)

	active := true
	got, err := svc.List(ctx, domain.ListRequest{Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Almonds", got[0].Name)

	byHSN, err := svc.List(ctx, domain.ListRequest{HSNCode: "1905"})
	require.NoError(t, err)
	assert.Len(t, byHSN, 1)
}

func TestLowStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	low, err := svc.Create(ctx, domain.CreateRequest{Code: "A1", Name: "Almonds", GSTRate: 5, Stock: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Code: "B1", Name: "Biscuits", GSTRate: 18, Stock: 80})
	require.NoError(t, err)
	archived, err := svc.Create(ctx, domain.CreateRequest{Code: "C1", Name: "Candles", GSTRate: 12, Stock: 1})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, archived.ID.String())
	require.NoError(t, err)

	// Default threshold picks up the active product at 3 units only.
	got, err := svc.LowStock(ctx, domain.LowStockRequest{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)

	all, err := svc.LowStock(ctx, domain.LowStockRequest{Threshold: 100})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
