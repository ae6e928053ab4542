package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	complianceservice "github.com/vyapari/gstbill/internal/compliance/service"
	"github.com/vyapari/gstbill/internal/config"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	customerrepository "github.com/vyapari/gstbill/internal/customer/repository"
	customerservice "github.com/vyapari/gstbill/internal/customer/service"
	gstservice "github.com/vyapari/gstbill/internal/gst/service"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	invoicerepository "github.com/vyapari/gstbill/internal/invoice/repository"
	productdomain "github.com/vyapari/gstbill/internal/product/domain"
	productrepository "github.com/vyapari/gstbill/internal/product/repository"
	productservice "github.com/vyapari/gstbill/internal/product/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	invoices invoicedomain.Service
	products productdomain.Service
	customer customerdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&productdomain.StockEntry{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		SellerStateCode: "32",
		InvoicePrefix:   "INV",
	}
	gstHolder := config.NewStaticGSTConfigHolder(config.DefaultGSTConfig())
	log := zap.NewNop()

	calc := gstservice.NewCalculator(gstservice.CalculatorParam{Cfg: cfg, Log: log})
	evaluator := complianceservice.NewEvaluator(complianceservice.EvaluatorParam{GSTCfg: gstHolder, Log: log})

	customerRepo := customerrepository.Provide()
	customerSvc := customerservice.New(customerservice.Params{
		DB: db, Log: log, GenID: node, GSTCfg: gstHolder, Repo: customerRepo,
	})

	productRepo := productrepository.Provide()
	productSvc := productservice.New(productservice.Params{
		DB: db, Log: log, GenID: node, GSTCfg: gstHolder, Repo: productRepo,
	})

	invoiceSvc := NewService(ServiceParam{
		DB: db, Log: log, GenID: node, Cfg: cfg,
		Calc:         calc,
		Evaluator:    evaluator,
		Repo:         invoicerepository.Provide(),
		CustomerRepo: customerRepo,
		CustomerSvc:  customerSvc,
		ProductRepo:  productRepo,
	})

	return &testEnv{db: db, invoices: invoiceSvc, products: productSvc, customer: customerSvc}
}

func (e *testEnv) product(t *testing.T, code string, rate, gstRate, stock float64) productdomain.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), productdomain.CreateRequest{
		Code: code, Name: code, Rate: rate, GSTRate: gstRate, Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func TestCreate_IntraState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "SOAP", 100, 18, 10)

	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		BuyerName:   "Walk-in",
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 2}},
		PaymentMode: invoicedomain.PaymentCash,
	})
	require.NoError(t, err)

	inv := resp.Invoice
	assert.Equal(t, fmt.Sprintf("INV/%s/0001", invoicedomain.FinancialYear(time.Now().UTC())), inv.InvoiceNumber)
	assert.False(t, inv.InterState)
	assert.Equal(t, 200.0, inv.Subtotal)
	assert.Equal(t, 18.0, inv.CGSTTotal)
	assert.Equal(t, 18.0, inv.SGSTTotal)
	assert.Equal(t, 0.0, inv.IGSTTotal)
	assert.Equal(t, 236.0, inv.GrandTotal)
	assert.False(t, inv.EwayRequired)

	// Stock came down.
	after, err := env.products.Get(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 8.0, after.Stock)
}

func TestCreate_InterState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "TV", 40000, 28, 5)

	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		BuyerName:      "Mysore Electronics",
		BuyerGSTIN:     "29ABCDE1234F1Z5",
		Items:          []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 2}},
		PaymentMode:    invoicedomain.PaymentCard,
		Transport:      invoicedomain.TransportInput{Mode: compliancedomain.TransportModeRoad, VehicleNumber: "ka 01 ab 1234", DistanceKm: 450},
	})
	require.NoError(t, err)

	inv := resp.Invoice
	assert.True(t, inv.InterState)
	assert.Equal(t, "29", inv.BuyerStateCode)
	assert.Equal(t, 0.0, inv.CGSTTotal)
	assert.Equal(t, 22400.0, inv.IGSTTotal)
	assert.Equal(t, 102400.0, inv.GrandTotal)

	assert.True(t, inv.EwayRequired)
	assert.Equal(t, 5, inv.EwayValidityDays)
	assert.Equal(t, "KA01AB1234", inv.VehicleNumber)
}

func TestCreate_CreditFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "RICE", 1000, 5, 100)

	cust, err := env.customer.Create(ctx, customerdomain.CreateCustomerRequest{
		Name: "Regular Buyer", StateCode: "32", CreditLimit: 3000,
	})
	require.NoError(t, err)

	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:  cust.ID.String(),
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 2}},
		PaymentMode: invoicedomain.PaymentCredit,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Credit)
	assert.Equal(t, customerdomain.CreditOK, resp.Credit.Status)

	// 2100 booked onto the balance.
	after, err := env.customer.GetByID(ctx, cust.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2100.0, after.CreditBalance)

	// Balance 2100 of 3000 is under the limit but the next credit sale sees
	// WARNING territory; once the balance reaches the limit, creation is
	// refused without an override.
	_, err = env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:  cust.ID.String(),
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
		PaymentMode: invoicedomain.PaymentCredit,
	})
	require.NoError(t, err)

	_, err = env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:  cust.ID.String(),
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
		PaymentMode: invoicedomain.PaymentCredit,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrCreditLimitExceeded)

	resp, err = env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:     cust.ID.String(),
		Items:          []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
		PaymentMode:    invoicedomain.PaymentCredit,
		OverrideCredit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, customerdomain.CreditExceeded, resp.Credit.Status)
}

func TestCreate_CreditNeedsCustomer(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "PEN", 10, 12, 50)

	_, err := env.invoices.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
		PaymentMode: invoicedomain.PaymentCredit,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrCustomerRequired)
}

func TestCreate_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ok := env.product(t, "OK", 50, 5, 10)
	scarce := env.product(t, "SCARCE", 50, 5, 1)

	_, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		Items: []invoicedomain.ItemInput{
			{ProductID: ok.ID.String(), Qty: 2},
			{ProductID: scarce.ID.String(), Qty: 5},
		},
		PaymentMode: invoicedomain.PaymentCash,
	})
	assert.ErrorIs(t, err, productdomain.ErrInsufficientStock)

	// The whole transaction rolled back, first line included.
	after, err := env.products.Get(ctx, ok.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10.0, after.Stock)

	list, err := env.invoices.List(ctx, invoicedomain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Invoices)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "SOAP", 100, 18, 10)

	preview, err := env.invoices.Preview(ctx, invoicedomain.CreateInvoiceRequest{
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 2}},
		PaymentMode: invoicedomain.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 236.0, preview.Totals.GrandTotal)
	require.Len(t, preview.RateGroups, 1)
	assert.Equal(t, 18.0, preview.RateGroups[0].GSTRate)

	after, err := env.products.Get(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10.0, after.Stock)

	list, err := env.invoices.List(ctx, invoicedomain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Invoices)
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "RICE", 1000, 5, 10)

	cust, err := env.customer.Create(ctx, customerdomain.CreateCustomerRequest{
		Name: "Buyer", StateCode: "32", CreditLimit: 50000,
	})
	require.NoError(t, err)

	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:  cust.ID.String(),
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 3}},
		PaymentMode: invoicedomain.PaymentCredit,
	})
	require.NoError(t, err)

	cancelled, err := env.invoices.Cancel(ctx, resp.Invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// Stock restored, credit reversed.
	after, err := env.products.Get(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10.0, after.Stock)

	balance, err := env.customer.GetByID(ctx, cust.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.CreditBalance)

	_, err = env.invoices.Cancel(ctx, resp.Invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrAlreadyCancelled)
}

func TestAttachEwayBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "TV", 60000, 28, 5)

	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		BuyerName:   "Buyer",
		Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
		PaymentMode: invoicedomain.PaymentUPI,
	})
	require.NoError(t, err)
	require.True(t, resp.Invoice.EwayRequired)

	updated, err := env.invoices.AttachEwayBill(ctx, resp.Invoice.ID.String(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", updated.EwayBillNumber)

	_, err = env.invoices.AttachEwayBill(ctx, resp.Invoice.ID.String(), "12345")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidEwayBillNumber)

	_, err = env.invoices.Cancel(ctx, resp.Invoice.ID.String())
	require.NoError(t, err)
	_, err = env.invoices.AttachEwayBill(ctx, resp.Invoice.ID.String(), "123456789012")
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceCancelled)
}

func TestInvoiceNumberSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "PEN", 10, 12, 100)

	fy := invoicedomain.FinancialYear(time.Now().UTC())
	for i := 1; i <= 3; i++ {
		resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
			Items:       []invoicedomain.ItemInput{{ProductID: p.ID.String(), Qty: 1}},
			PaymentMode: invoicedomain.PaymentCash,
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV/%s/%04d", fy, i), resp.Invoice.InvoiceNumber)
	}
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	soap := env.product(t, "SOAP", 100, 18, 100)
	rice := env.product(t, "RICE", 60, 5, 100)

	_, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		Items:       []invoicedomain.ItemInput{{ProductID: soap.ID.String(), Qty: 2}},
		PaymentMode: invoicedomain.PaymentCash,
	})
	require.NoError(t, err)
	_, err = env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		Items:       []invoicedomain.ItemInput{{ProductID: rice.ID.String(), Qty: 5}},
		PaymentMode: invoicedomain.PaymentUPI,
	})
	require.NoError(t, err)

	// A cancelled invoice drops out of every report.
	resp, err := env.invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		Items:       []invoicedomain.ItemInput{{ProductID: soap.ID.String(), Qty: 10}},
		PaymentMode: invoicedomain.PaymentCash,
	})
	require.NoError(t, err)
	_, err = env.invoices.Cancel(ctx, resp.Invoice.ID.String())
	require.NoError(t, err)

	now := time.Now().UTC()
	daily, err := env.invoices.DailySales(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), daily.InvoiceCount)
	assert.InDelta(t, 236.0+315.0, daily.GrandTotal, 0.01)

	summary, err := env.invoices.GSTSummary(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, 5.0, summary[0].GSTRate)
	assert.Equal(t, 18.0, summary[1].GSTRate)
	assert.InDelta(t, 300.0, summary[0].TaxableValue, 0.01)

	modes, err := env.invoices.PaymentBreakdown(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, modes, 2)
}

func TestFinancialYear(t *testing.T) {
	assert.Equal(t, "2025-26", invoicedomain.FinancialYear(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-26", invoicedomain.FinancialYear(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-27", invoicedomain.FinancialYear(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-00", invoicedomain.FinancialYear(time.Date(1999, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
