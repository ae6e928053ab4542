package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/compliance/validate"
	"github.com/vyapari/gstbill/internal/config"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	productdomain "github.com/vyapari/gstbill/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config

	Calc         gstdomain.Calculator
	Evaluator    compliancedomain.Evaluator
	Repo         invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	CustomerSvc  customerdomain.Service
	ProductRepo  productdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cfg   config.Config

	calc         gstdomain.Calculator
	evaluator    compliancedomain.Evaluator
	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	customerSvc  customerdomain.Service
	productRepo  productdomain.Repository
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		cfg:   p.Cfg,

		calc:         p.Calc,
		evaluator:    p.Evaluator,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		customerSvc:  p.CustomerSvc,
		productRepo:  p.ProductRepo,
	}
}

// pricedCart is a priced request: everything Create needs to persist, and
// everything Preview needs to return.
type pricedCart struct {
	result    gstdomain.ComputeResult
	transport compliancedomain.TransportDetails
	eway      compliancedomain.EwayAssessment
	customer  *customerdomain.Customer
	credit    *customerdomain.CreditAssessment
	buyer     buyerDetails
}

type buyerDetails struct {
	name      string
	gstin     string
	stateCode string
	address   string
}

func (s *Service) Preview(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Preview, error) {
	priced, err := s.price(ctx, req)
	if err != nil {
		return invoicedomain.Preview{}, err
	}

	return invoicedomain.Preview{
		Items:      priced.result.Items,
		Totals:     priced.result.Totals,
		InterState: priced.result.InterState,
		Eway:       priced.eway,
		Credit:     priced.credit,
		RateGroups: s.calc.SummaryByRate(priced.result.Items),
	}, nil
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.InvoiceResponse, error) {
	priced, err := s.price(ctx, req)
	if err != nil {
		return invoicedomain.InvoiceResponse{}, err
	}

	if req.PaymentMode == invoicedomain.PaymentCredit &&
		priced.credit != nil &&
		priced.credit.Status == customerdomain.CreditExceeded &&
		!req.OverrideCredit {
		return invoicedomain.InvoiceResponse{}, fmt.Errorf("%w: %s", invoicedomain.ErrCreditLimitExceeded, priced.credit.Message)
	}

	now := time.Now().UTC()
	invoice := invoicedomain.Invoice{
		ID:     s.genID.Generate(),
		Status: invoicedomain.InvoiceStatusIssued,

		BuyerName:      priced.buyer.name,
		BuyerGSTIN:     priced.buyer.gstin,
		BuyerStateCode: priced.buyer.stateCode,
		BuyerAddress:   priced.buyer.address,

		PaymentMode: req.PaymentMode,
		InterState:  priced.result.InterState,
		Subtotal:    priced.result.Totals.Subtotal,
		CGSTTotal:   priced.result.Totals.CGSTTotal,
		SGSTTotal:   priced.result.Totals.SGSTTotal,
		IGSTTotal:   priced.result.Totals.IGSTTotal,
		TotalTax:    priced.result.Totals.TotalTax,
		Discount:    priced.result.Totals.Discount,
		GrandTotal:  priced.result.Totals.GrandTotal,

		TransportMode:   priced.transport.Mode,
		VehicleNumber:   priced.transport.VehicleNumber,
		DistanceKm:      priced.transport.DistanceKm,
		TransporterID:   priced.transport.TransporterID,
		OverDimensional: priced.transport.OverDimensional,
		PortCode:        priced.transport.PortCode,

		EwayRequired:     priced.eway.Required,
		EwayValidityDays: priced.eway.ValidityDays,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if priced.customer != nil {
		id := priced.customer.ID
		invoice.CustomerID = &id
	}

	items := make([]invoicedomain.InvoiceItem, 0, len(priced.result.Items))
	for _, line := range priced.result.Items {
		items = append(items, invoicedomain.InvoiceItem{
			ID:           s.genID.Generate(),
			InvoiceID:    invoice.ID,
			ProductID:    snowflake.ID(line.ProductID),
			ProductName:  line.ProductName,
			HSNCode:      line.HSNCode,
			Qty:          line.Qty,
			Unit:         line.Unit,
			Rate:         line.Rate,
			GSTRate:      line.GSTRate,
			TaxableValue: line.TaxableValue,
			CGST:         line.CGST,
			SGST:         line.SGST,
			IGST:         line.IGST,
			Total:        line.Total,
			CreatedAt:    now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequence(ctx, tx, invoicedomain.FinancialYear(now))
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = fmt.Sprintf("%s/%s/%04d", s.cfg.InvoicePrefix, invoicedomain.FinancialYear(now), seq)

		if err := s.repo.Insert(ctx, tx, &invoice, items); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Qty); err != nil {
				return fmt.Errorf("product %s: %w", item.ProductName, err)
			}
			if err := s.productRepo.InsertStockEntry(ctx, tx, &productdomain.StockEntry{
				ID:        s.genID.Generate(),
				ProductID: item.ProductID,
				Kind:      productdomain.StockSale,
				Delta:     -item.Qty,
				Reference: invoice.InvoiceNumber,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		if req.PaymentMode == invoicedomain.PaymentCredit {
			return s.customerRepo.AdjustCreditBalance(ctx, tx, *invoice.CustomerID, invoice.GrandTotal)
		}
		return nil
	})
	if err != nil {
		return invoicedomain.InvoiceResponse{}, err
	}

	invoice.Items = items
	s.log.Info("invoice issued",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("grand_total", invoice.GrandTotal),
		zap.Bool("inter_state", invoice.InterState),
		zap.Bool("eway_required", invoice.EwayRequired),
	)

	return invoicedomain.InvoiceResponse{
		Invoice: invoice,
		Eway:    priced.eway,
		Credit:  priced.credit,
	}, nil
}

// price validates the request and runs the tax, compliance and credit
// pipeline without touching storage beyond reads.
func (s *Service) price(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (pricedCart, error) {
	if !req.PaymentMode.Valid() {
		return pricedCart{}, fmt.Errorf("%w: %s", invoicedomain.ErrInvalidPaymentMode, req.PaymentMode)
	}

	buyer := buyerDetails{
		name:    strings.TrimSpace(req.BuyerName),
		address: strings.TrimSpace(req.BuyerAddress),
	}

	var customer *customerdomain.Customer
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := s.customerSvc.ParseID(req.CustomerID)
		if err != nil {
			return pricedCart{}, err
		}
		customer, err = s.customerRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return pricedCart{}, err
		}
		if customer == nil {
			return pricedCart{}, customerdomain.ErrNotFound
		}
		if buyer.name == "" {
			buyer.name = customer.Name
		}
		if buyer.address == "" {
			buyer.address = customer.Address
		}
		buyer.gstin = customer.GSTIN
		buyer.stateCode = customer.StateCode
	}

	if req.PaymentMode == invoicedomain.PaymentCredit && customer == nil {
		return pricedCart{}, fmt.Errorf("%w: credit sales need a customer on record", invoicedomain.ErrCustomerRequired)
	}

	gstin, err := validate.GSTIN(req.BuyerGSTIN)
	if err != nil {
		return pricedCart{}, err
	}
	if gstin != "" {
		buyer.gstin = gstin
	}
	if strings.TrimSpace(req.BuyerStateCode) != "" {
		stateCode, err := validate.StateCode(req.BuyerStateCode)
		if err != nil {
			return pricedCart{}, err
		}
		buyer.stateCode = stateCode
	}
	if buyer.stateCode == "" && buyer.gstin != "" {
		buyer.stateCode = buyer.gstin[:2]
	}

	cart, err := s.buildCart(ctx, req, buyer.stateCode)
	if err != nil {
		return pricedCart{}, err
	}

	result, err := s.calc.Compute(cart)
	if err != nil {
		return pricedCart{}, err
	}

	transport := compliancedomain.TransportDetails{
		Mode:            req.Transport.Mode,
		DistanceKm:      req.Transport.DistanceKm,
		OverDimensional: req.Transport.OverDimensional,
		PortCode:        strings.TrimSpace(req.Transport.PortCode),
	}
	if err := s.evaluator.ValidateTransport(compliancedomain.TransportDetails{
		Mode:          req.Transport.Mode,
		VehicleNumber: req.Transport.VehicleNumber,
		TransporterID: req.Transport.TransporterID,
	}); err != nil {
		return pricedCart{}, err
	}
	transport.VehicleNumber, _ = validate.VehicleNumber(req.Transport.VehicleNumber)
	transport.TransporterID, _ = validate.GSTIN(req.Transport.TransporterID)

	eway := s.evaluator.Assess(result.Totals.GrandTotal, transport)

	var credit *customerdomain.CreditAssessment
	if customer != nil && req.PaymentMode == invoicedomain.PaymentCredit {
		assessment, err := s.customerSvc.EvaluateCredit(ctx, customer.ID, result.Totals.GrandTotal)
		if err != nil {
			return pricedCart{}, err
		}
		credit = &assessment
	}

	return pricedCart{
		result:    result,
		transport: transport,
		eway:      eway,
		customer:  customer,
		credit:    credit,
		buyer:     buyer,
	}, nil
}

func (s *Service) buildCart(ctx context.Context, req invoicedomain.CreateInvoiceRequest, buyerStateCode string) (gstdomain.Cart, error) {
	cart := gstdomain.Cart{
		Discount:       req.Discount,
		BuyerStateCode: buyerStateCode,
	}

	for _, input := range req.Items {
		id, err := snowflake.ParseString(strings.TrimSpace(input.ProductID))
		if err != nil || id == 0 {
			return gstdomain.Cart{}, fmt.Errorf("%w: %s", invoicedomain.ErrUnknownProduct, input.ProductID)
		}
		product, err := s.productRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return gstdomain.Cart{}, err
		}
		if product == nil {
			return gstdomain.Cart{}, fmt.Errorf("%w: %s", invoicedomain.ErrUnknownProduct, input.ProductID)
		}

		cart.Items = append(cart.Items, gstdomain.LineItem{
			ProductID:   int64(product.ID),
			ProductName: product.Name,
			HSNCode:     product.HSNCode,
			Qty:         input.Qty,
			Unit:        product.Unit,
			Rate:        product.Rate,
			GSTRate:     product.GSTRate,
		})
	}

	return cart, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	invoice, err := s.find(ctx, rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return s.withItems(ctx, invoice)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByNumber(ctx, s.db, strings.TrimSpace(number))
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return s.withItems(ctx, invoice)
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	filter := invoicedomain.ListInvoiceFilter{
		Status:        req.Status,
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		From:          req.From,
		To:            req.To,
	}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := s.customerSvc.ParseID(req.CustomerID)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, err
		}
		filter.CustomerID = &id
	}

	invoices, err := s.repo.List(ctx, s.db, filter, req.Pagination.Normalize())
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) Cancel(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	invoice, err := s.find(ctx, rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusCancelled {
		return invoicedomain.Invoice{}, invoicedomain.ErrAlreadyCancelled
	}

	items, err := s.repo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice.Status = invoicedomain.InvoiceStatusCancelled
		invoice.CancelledAt = &now
		invoice.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Qty); err != nil {
				return err
			}
			if err := s.productRepo.InsertStockEntry(ctx, tx, &productdomain.StockEntry{
				ID:        s.genID.Generate(),
				ProductID: item.ProductID,
				Kind:      productdomain.StockCancelled,
				Delta:     item.Qty,
				Reference: invoice.InvoiceNumber,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		if invoice.PaymentMode == invoicedomain.PaymentCredit && invoice.CustomerID != nil {
			return s.customerRepo.AdjustCreditBalance(ctx, tx, *invoice.CustomerID, -invoice.GrandTotal)
		}
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	invoice.Items = items
	s.log.Info("invoice cancelled", zap.String("invoice_number", invoice.InvoiceNumber))
	return *invoice, nil
}

func (s *Service) AttachEwayBill(ctx context.Context, rawID string, number string) (invoicedomain.Invoice, error) {
	invoice, err := s.find(ctx, rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusCancelled {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceCancelled
	}

	normalized, err := validate.EwayBillNumber(number)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	invoice.EwayBillNumber = normalized
	invoice.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) DailySales(ctx context.Context, day time.Time) (invoicedomain.DailySalesReport, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	report, err := s.repo.SumDailySales(ctx, s.db, dayStart, dayEnd)
	if err != nil {
		return invoicedomain.DailySalesReport{}, err
	}
	report.Date = dayStart.Format("2006-01-02")
	return report, nil
}

func (s *Service) GSTSummary(ctx context.Context, from, to time.Time) ([]invoicedomain.GSTSummaryRow, error) {
	return s.repo.SumByGSTRate(ctx, s.db, from, to)
}

func (s *Service) PaymentBreakdown(ctx context.Context, from, to time.Time) ([]invoicedomain.PaymentModeBreakdown, error) {
	return s.repo.SumByPaymentMode(ctx, s.db, from, to)
}

func (s *Service) find(ctx context.Context, rawID string) (*invoicedomain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, invoicedomain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) withItems(ctx context.Context, invoice *invoicedomain.Invoice) (invoicedomain.Invoice, error) {
	items, err := s.repo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoice.Items = items
	return *invoice, nil
}
