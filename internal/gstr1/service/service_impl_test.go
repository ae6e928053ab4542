package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/gstr1/domain"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	stamp time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &invoicedomain.InvoiceItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
		Cfg: config.Config{SellerGSTIN: "32AAAAA0000A1Z5", SellerStateCode: "32"},
	})

	return &fixture{
		db:    db,
		node:  node,
		svc:   svc,
		stamp: time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC),
	}
}

type line struct {
	rate    float64
	taxable float64
	cgst    float64
	sgst    float64
	igst    float64
}

func (f *fixture) invoice(t *testing.T, number, gstin, stateCode string, status invoicedomain.InvoiceStatus, interState bool, lines []line) {
	t.Helper()

	var grand float64
	invoice := invoicedomain.Invoice{
		ID:             f.node.Generate(),
		InvoiceNumber:  number,
		Status:         status,
		BuyerGSTIN:     gstin,
		BuyerStateCode: stateCode,
		PaymentMode:    invoicedomain.PaymentCash,
		InterState:     interState,
		CreatedAt:      f.stamp,
		UpdatedAt:      f.stamp,
	}
	require.NoError(t, f.db.Create(&invoice).Error)

	for _, l := range lines {
		grand += l.taxable + l.cgst + l.sgst + l.igst
		require.NoError(t, f.db.Create(&invoicedomain.InvoiceItem{
			ID:           f.node.Generate(),
			InvoiceID:    invoice.ID,
			ProductID:    f.node.Generate(),
			ProductName:  "item",
			Qty:          1,
			GSTRate:      l.rate,
			TaxableValue: l.taxable,
			CGST:         l.cgst,
			SGST:         l.sgst,
			IGST:         l.igst,
			Total:        l.taxable + l.cgst + l.sgst + l.igst,
			CreatedAt:    f.stamp,
		}).Error)
	}

	invoice.GrandTotal = grand
	require.NoError(t, f.db.Save(&invoice).Error)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Registered buyer, two slabs on one invoice.
	f.invoice(t, "INV/2025-26/0001", "29ABCDE1234F1Z5", "29", invoicedomain.InvoiceStatusIssued, true, []line{
		{rate: 18, taxable: 1000, igst: 180},
		{rate: 5, taxable: 200, igst: 10},
	})
	// Two walk-in sales on the same slab collapse into one B2CS row.
	f.invoice(t, "INV/2025-26/0002", "", "", invoicedomain.InvoiceStatusIssued, false, []line{
		{rate: 18, taxable: 500, cgst: 45, sgst: 45},
	})
	f.invoice(t, "INV/2025-26/0003", "", "", invoicedomain.InvoiceStatusIssued, false, []line{
		{rate: 18, taxable: 300, cgst: 27, sgst: 27},
	})
	// Cancelled invoices never reach the return.
	f.invoice(t, "INV/2025-26/0004", "", "", invoicedomain.InvoiceStatusCancelled, false, []line{
		{rate: 18, taxable: 9999, cgst: 899.91, sgst: 899.91},
	})

	export, err := f.svc.Export(ctx, "072025")
	require.NoError(t, err)

	assert.Equal(t, "32AAAAA0000A1Z5", export.GSTIN)
	assert.Equal(t, "072025", export.FilingPeriod)

	require.Len(t, export.B2B, 1)
	entry := export.B2B[0]
	assert.Equal(t, "29ABCDE1234F1Z5", entry.CTIN)
	require.Len(t, entry.Invoices, 1)
	inv := entry.Invoices[0]
	assert.Equal(t, "INV/2025-26/0001", inv.Number)
	assert.Equal(t, "15-07-2025", inv.Date)
	assert.Equal(t, "29", inv.PlaceOfSupply)
	assert.Equal(t, "N", inv.ReverseCharge)
	assert.Equal(t, "R", inv.InvoiceType)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 5.0, inv.Items[0].Detail.Rate)
	assert.Equal(t, 18.0, inv.Items[1].Detail.Rate)
	assert.Equal(t, 180.0, inv.Items[1].Detail.IGST)

	require.Len(t, export.B2CS, 1)
	row := export.B2CS[0]
	assert.Equal(t, "INTRA", row.SupplyType)
	// Walk-in sales fall back to the seller's own state as place of supply.
	assert.Equal(t, "32", row.PlaceOfSupply)
	assert.Equal(t, "OE", row.Type)
	assert.Equal(t, 18.0, row.Rate)
	assert.Equal(t, 800.0, row.TaxableValue)
	assert.Equal(t, 72.0, row.CGST)
	assert.Equal(t, 72.0, row.SGST)

	assert.InDelta(t, 1390+590+354, export.GrossTurn, 0.01)
}

func TestExport_EmptyPeriod(t *testing.T) {
	f := newFixture(t)

	export, err := f.svc.Export(context.Background(), "012024")
	require.NoError(t, err)
	assert.Empty(t, export.B2B)
	assert.Empty(t, export.B2CS)
	assert.Equal(t, 0.0, export.GrossTurn)
}

func TestExport_BadPeriod(t *testing.T) {
	f := newFixture(t)

	for _, bad := range []string{"", "2025", "132025", "00x2025", "072016"} {
		_, err := f.svc.Export(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod, bad)
	}
}
