package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vyapari/gstbill/internal/compliance"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/creditnote"
	creditnotedomain "github.com/vyapari/gstbill/internal/creditnote/domain"
	"github.com/vyapari/gstbill/internal/customer"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	"github.com/vyapari/gstbill/internal/gst"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	"github.com/vyapari/gstbill/internal/gstr1"
	gstr1domain "github.com/vyapari/gstbill/internal/gstr1/domain"
	"github.com/vyapari/gstbill/internal/invoice"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	"github.com/vyapari/gstbill/internal/observability"
	obsmiddleware "github.com/vyapari/gstbill/internal/observability/logger"
	obsmetrics "github.com/vyapari/gstbill/internal/observability/metrics"
	"github.com/vyapari/gstbill/internal/product"
	productdomain "github.com/vyapari/gstbill/internal/product/domain"
	"github.com/vyapari/gstbill/internal/reference"
	referencedomain "github.com/vyapari/gstbill/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	gst.Module,
	compliance.Module,
	customer.Module,
	product.Module,
	invoice.Module,
	creditnote.Module,
	gstr1.Module,
	reference.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config

	calcSvc       gstdomain.Calculator
	complianceSvc compliancedomain.Evaluator
	customerSvc   customerdomain.Service
	productSvc    productdomain.Service
	invoiceSvc    invoicedomain.Service
	creditNoteSvc creditnotedomain.Service
	gstr1Svc      gstr1domain.Service
	referenceRepo referencedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	CalcSvc       gstdomain.Calculator
	ComplianceSvc compliancedomain.Evaluator
	CustomerSvc   customerdomain.Service
	ProductSvc    productdomain.Service
	InvoiceSvc    invoicedomain.Service
	CreditNoteSvc creditnotedomain.Service
	Gstr1Svc      gstr1domain.Service
	ReferenceRepo referencedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,

		calcSvc:       p.CalcSvc,
		complianceSvc: p.ComplianceSvc,
		customerSvc:   p.CustomerSvc,
		productSvc:    p.ProductSvc,
		invoiceSvc:    p.InvoiceSvc,
		creditNoteSvc: p.CreditNoteSvc,
		gstr1Svc:      p.Gstr1Svc,
		referenceRepo: p.ReferenceRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.GET("/customers/:id/credit", s.EvaluateCustomerCredit)
	api.POST("/customers/:id/payments", s.RecordCustomerPayment)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/low-stock", s.LowStockProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.POST("/products/:id/archive", s.ArchiveProduct)
	api.POST("/products/:id/stock", s.AdjustProductStock)
	api.GET("/products/:id/stock", s.ProductStockLedger)

	// -------- Invoices --------
	api.POST("/invoices/preview", s.PreviewInvoice)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/:id/cancel", s.CancelInvoice)
	api.POST("/invoices/:id/eway", s.AttachEwayBill)

	// -------- Credit notes --------
	api.GET("/invoices/:id/returnable", s.ReturnableInvoiceItems)
	api.POST("/invoices/:id/credit-notes", s.CreateCreditNote)
	api.GET("/credit-notes", s.ListCreditNotes)
	api.GET("/credit-notes/:id", s.GetCreditNoteByID)
	api.POST("/credit-notes/:id/cancel", s.CancelCreditNote)

	// -------- Compliance --------
	api.POST("/eway/assess", s.AssessEway)
	api.POST("/validate/vehicle", s.ValidateVehicleNumber)
	api.POST("/validate/gstin", s.ValidateGSTIN)

	// -------- Reference data --------
	api.GET("/reference/states", s.ListStates)
	api.GET("/reference/transport-modes", s.ListTransportModes)
	api.GET("/reference/gst-rates", s.ListGSTRates)

	// -------- Reports --------
	api.GET("/reports/daily-sales", s.DailySalesReport)
	api.GET("/reports/gst-summary", s.GSTSummaryReport)
	api.GET("/reports/payment-modes", s.PaymentModeReport)
	api.GET("/reports/credit-notes", s.CreditNoteSummaryReport)
	api.GET("/reports/gstr1/:period", s.ExportGSTR1)
}
