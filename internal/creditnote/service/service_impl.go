package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/config"
	creditnotedomain "github.com/vyapari/gstbill/internal/creditnote/domain"
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
	Repo         creditnotedomain.Repository
	InvoiceRepo  invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cfg   config.Config

	calc         gstdomain.Calculator
	repo         creditnotedomain.Repository
	invoiceRepo  invoicedomain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
}

func NewService(p ServiceParam) creditnotedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("creditnote.service"),
		genID: p.GenID,
		cfg:   p.Cfg,

		calc:         p.Calc,
		repo:         p.Repo,
		invoiceRepo:  p.InvoiceRepo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
	}
}

func (s *Service) Create(ctx context.Context, req creditnotedomain.CreateCreditNoteRequest) (creditnotedomain.CreditNote, error) {
	invoice, origItems, err := s.findInvoice(ctx, req.InvoiceID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusCancelled {
		return creditnotedomain.CreditNote{}, invoicedomain.ErrInvoiceCancelled
	}

	returned, err := s.repo.ReturnedQtyByProduct(ctx, s.db, invoice.ID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}

	origByProduct := make(map[snowflake.ID]invoicedomain.InvoiceItem, len(origItems))
	for _, item := range origItems {
		origByProduct[item.ProductID] = item
	}

	now := time.Now().UTC()
	var (
		items     []creditnotedomain.CreditNoteItem
		subtotal  float64
		cgstTotal float64
		sgstTotal float64
		igstTotal float64
	)
	for _, input := range req.Items {
		if input.Qty <= 0 {
			continue
		}
		productID, err := snowflake.ParseString(strings.TrimSpace(input.ProductID))
		if err != nil {
			return creditnotedomain.CreditNote{}, fmt.Errorf("%w: %s", creditnotedomain.ErrNotOnInvoice, input.ProductID)
		}
		orig, ok := origByProduct[productID]
		if !ok {
			return creditnotedomain.CreditNote{}, fmt.Errorf("%w: %s", creditnotedomain.ErrNotOnInvoice, input.ProductID)
		}
		remaining := orig.Qty - returned[productID]
		if input.Qty > remaining {
			return creditnotedomain.CreditNote{}, fmt.Errorf("%w: %s has %.2f left to return",
				creditnotedomain.ErrExceedsReturnable, orig.ProductName, remaining)
		}

		// Value the return at the invoice's frozen rate and its original
		// intra/inter split, not today's catalog or buyer state.
		taxable := input.Qty * orig.Rate
		split := s.calc.Split(taxable, orig.GSTRate, !invoice.InterState)

		items = append(items, creditnotedomain.CreditNoteItem{
			ID:           s.genID.Generate(),
			ProductID:    productID,
			ProductName:  orig.ProductName,
			HSNCode:      orig.HSNCode,
			Qty:          input.Qty,
			Unit:         orig.Unit,
			Rate:         orig.Rate,
			GSTRate:      orig.GSTRate,
			TaxableValue: round2(taxable),
			CGST:         round2(split.CGST),
			SGST:         round2(split.SGST),
			IGST:         round2(split.IGST),
			Total:        round2(taxable + split.CGST + split.SGST + split.IGST),
			CreatedAt:    now,
		})
		subtotal += taxable
		cgstTotal += split.CGST
		sgstTotal += split.SGST
		igstTotal += split.IGST
	}
	if len(items) == 0 {
		return creditnotedomain.CreditNote{}, creditnotedomain.ErrNothingToReturn
	}

	restoreStock := req.RestoreStock == nil || *req.RestoreStock
	note := creditnotedomain.CreditNote{
		ID:            s.genID.Generate(),
		Status:        creditnotedomain.CreditNoteStatusActive,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		BuyerName:     invoice.BuyerName,
		Reason:        req.Reason.Normalize(),
		ReasonDetails: strings.TrimSpace(req.ReasonDetails),
		StockRestored: restoreStock,
		InterState:    invoice.InterState,
		Subtotal:      round2(subtotal),
		CGSTTotal:     round2(cgstTotal),
		SGSTTotal:     round2(sgstTotal),
		IGSTTotal:     round2(igstTotal),
		GrandTotal:    round2(subtotal + cgstTotal + sgstTotal + igstTotal),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range items {
		items[i].CreditNoteID = note.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.repo.NextSequence(ctx, tx, invoicedomain.FinancialYear(now))
		if err != nil {
			return err
		}
		note.Number = fmt.Sprintf("%s/%s/%04d", s.cfg.CreditNotePrefix, invoicedomain.FinancialYear(now), seq)

		if err := s.repo.Insert(ctx, tx, &note, items); err != nil {
			return err
		}

		if restoreStock {
			for _, item := range items {
				if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Qty); err != nil {
					return err
				}
				if err := s.productRepo.InsertStockEntry(ctx, tx, &productdomain.StockEntry{
					ID:        s.genID.Generate(),
					ProductID: item.ProductID,
					Kind:      productdomain.StockReturn,
					Delta:     item.Qty,
					Reference: note.Number,
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		if invoice.PaymentMode == invoicedomain.PaymentCredit && invoice.CustomerID != nil {
			return s.customerRepo.AdjustCreditBalance(ctx, tx, *invoice.CustomerID, -note.GrandTotal)
		}
		return nil
	})
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}

	note.Items = items
	s.log.Info("credit note issued",
		zap.String("number", note.Number),
		zap.String("invoice_number", note.InvoiceNumber),
		zap.String("reason", string(note.Reason)),
	)
	return note, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (creditnotedomain.CreditNote, error) {
	note, err := s.find(ctx, rawID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}
	items, err := s.repo.FindItems(ctx, s.db, note.ID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}
	note.Items = items
	return *note, nil
}

func (s *Service) List(ctx context.Context, req creditnotedomain.ListCreditNoteRequest) ([]creditnotedomain.CreditNote, error) {
	filter := creditnotedomain.ListFilter{
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, customerdomain.ErrInvalidID
		}
		filter.CustomerID = &id
	}
	return s.repo.List(ctx, s.db, filter, req.Pagination.Normalize())
}

func (s *Service) Returnable(ctx context.Context, rawInvoiceID string) ([]creditnotedomain.ReturnableItem, error) {
	invoice, origItems, err := s.findInvoice(ctx, rawInvoiceID)
	if err != nil {
		return nil, err
	}

	returned, err := s.repo.ReturnedQtyByProduct(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, err
	}

	var returnable []creditnotedomain.ReturnableItem
	for _, item := range origItems {
		remaining := item.Qty - returned[item.ProductID]
		if remaining <= 0 {
			continue
		}
		returnable = append(returnable, creditnotedomain.ReturnableItem{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			HSNCode:       item.HSNCode,
			Unit:          item.Unit,
			Rate:          item.Rate,
			GSTRate:       item.GSTRate,
			OriginalQty:   item.Qty,
			ReturnedQty:   returned[item.ProductID],
			ReturnableQty: remaining,
		})
	}
	return returnable, nil
}

func (s *Service) Cancel(ctx context.Context, rawID string) (creditnotedomain.CreditNote, error) {
	note, err := s.find(ctx, rawID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}
	if note.Status == creditnotedomain.CreditNoteStatusCancelled {
		return creditnotedomain.CreditNote{}, creditnotedomain.ErrAlreadyCancelled
	}

	items, err := s.repo.FindItems(ctx, s.db, note.ID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, s.db, note.InvoiceID)
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note.Status = creditnotedomain.CreditNoteStatusCancelled
		note.CancelledAt = &now
		note.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, note); err != nil {
			return err
		}

		if note.StockRestored {
			for _, item := range items {
				if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Qty); err != nil {
					return err
				}
				if err := s.productRepo.InsertStockEntry(ctx, tx, &productdomain.StockEntry{
					ID:        s.genID.Generate(),
					ProductID: item.ProductID,
					Kind:      productdomain.StockReturn,
					Delta:     -item.Qty,
					Reference: note.Number,
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		if invoice != nil && invoice.PaymentMode == invoicedomain.PaymentCredit && invoice.CustomerID != nil {
			return s.customerRepo.AdjustCreditBalance(ctx, tx, *invoice.CustomerID, note.GrandTotal)
		}
		return nil
	})
	if err != nil {
		return creditnotedomain.CreditNote{}, err
	}

	note.Items = items
	s.log.Info("credit note cancelled", zap.String("number", note.Number))
	return *note, nil
}

func (s *Service) Summary(ctx context.Context, from, to time.Time) (creditnotedomain.Summary, error) {
	summary, err := s.repo.SumTotals(ctx, s.db, from, to)
	if err != nil {
		return creditnotedomain.Summary{}, err
	}
	byReason, err := s.repo.SumByReason(ctx, s.db, from, to)
	if err != nil {
		return creditnotedomain.Summary{}, err
	}
	summary.ByReason = byReason
	return summary, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*creditnotedomain.CreditNote, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, creditnotedomain.ErrInvalidID
	}

	note, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, creditnotedomain.ErrNotFound
	}
	return note, nil
}

func (s *Service) findInvoice(ctx context.Context, rawID string) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, nil, invoicedomain.ErrInvalidID
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, invoicedomain.ErrNotFound
	}

	items, err := s.invoiceRepo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
