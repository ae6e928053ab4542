package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/gstr1/domain"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
	Cfg config.Config
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	cfg config.Config
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("gstr1.service"),
		cfg: p.Cfg,
	}
}

func (s *Service) Export(ctx context.Context, period string) (domain.Export, error) {
	from, to, err := parsePeriod(period)
	if err != nil {
		return domain.Export{}, err
	}

	var invoices []invoicedomain.Invoice
	err = s.db.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?", invoicedomain.InvoiceStatusIssued, from, to).
		Order("invoice_number asc").
		Find(&invoices).Error
	if err != nil {
		return domain.Export{}, err
	}

	itemsByInvoice, err := s.loadItems(ctx, invoices)
	if err != nil {
		return domain.Export{}, err
	}

	export := domain.Export{
		GSTIN:        s.cfg.SellerGSTIN,
		FilingPeriod: period,
		B2B:          []domain.B2BEntry{},
		B2CS:         []domain.B2CSEntry{},
	}

	b2bByCTIN := map[string][]domain.B2BInvoice{}
	b2csByKey := map[string]*domain.B2CSEntry{}
	var gross float64

	for _, invoice := range invoices {
		gross += invoice.GrandTotal
		pos := invoice.BuyerStateCode
		if pos == "" {
			pos = s.cfg.SellerStateCode
		}

		if invoice.BuyerGSTIN != "" {
			b2bByCTIN[invoice.BuyerGSTIN] = append(b2bByCTIN[invoice.BuyerGSTIN],
				s.b2bInvoice(invoice, itemsByInvoice[invoice.ID.Int64()], pos))
			continue
		}

		s.accumulateB2CS(b2csByKey, invoice, itemsByInvoice[invoice.ID.Int64()], pos)
	}

	for ctin, invs := range b2bByCTIN {
		export.B2B = append(export.B2B, domain.B2BEntry{CTIN: ctin, Invoices: invs})
	}
	sort.Slice(export.B2B, func(i, j int) bool { return export.B2B[i].CTIN < export.B2B[j].CTIN })

	for _, entry := range b2csByKey {
		entry.TaxableValue = round2(entry.TaxableValue)
		entry.CGST = round2(entry.CGST)
		entry.SGST = round2(entry.SGST)
		entry.IGST = round2(entry.IGST)
		export.B2CS = append(export.B2CS, *entry)
	}
	sort.Slice(export.B2CS, func(i, j int) bool {
		if export.B2CS[i].PlaceOfSupply != export.B2CS[j].PlaceOfSupply {
			return export.B2CS[i].PlaceOfSupply < export.B2CS[j].PlaceOfSupply
		}
		return export.B2CS[i].Rate < export.B2CS[j].Rate
	})

	export.GrossTurn = round2(gross)
	s.log.Info("gstr1 export built",
		zap.String("period", period),
		zap.Int("b2b_parties", len(export.B2B)),
		zap.Int("b2cs_rows", len(export.B2CS)),
	)
	return export, nil
}

func (s *Service) loadItems(ctx context.Context, invoices []invoicedomain.Invoice) (map[int64][]invoicedomain.InvoiceItem, error) {
	result := map[int64][]invoicedomain.InvoiceItem{}
	if len(invoices) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID.Int64())
	}

	var items []invoicedomain.InvoiceItem
	err := s.db.WithContext(ctx).
		Where("invoice_id IN ?", ids).
		Order("invoice_id asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		result[item.InvoiceID.Int64()] = append(result[item.InvoiceID.Int64()], item)
	}
	return result, nil
}

// b2bInvoice collapses an invoice's lines into rate-wise item details, the
// granularity the portal expects.
func (s *Service) b2bInvoice(invoice invoicedomain.Invoice, items []invoicedomain.InvoiceItem, pos string) domain.B2BInvoice {
	byRate := map[float64]*domain.ItemDetail{}
	var rates []float64
	for _, item := range items {
		detail, ok := byRate[item.GSTRate]
		if !ok {
			detail = &domain.ItemDetail{Rate: item.GSTRate}
			byRate[item.GSTRate] = detail
			rates = append(rates, item.GSTRate)
		}
		detail.TaxableValue += item.TaxableValue
		detail.CGST += item.CGST
		detail.SGST += item.SGST
		detail.IGST += item.IGST
	}
	sort.Float64s(rates)

	result := domain.B2BInvoice{
		Number:        invoice.InvoiceNumber,
		Date:          invoice.CreatedAt.Format("02-01-2006"),
		Value:         invoice.GrandTotal,
		PlaceOfSupply: pos,
		ReverseCharge: "N",
		InvoiceType:   "R",
	}
	for i, rate := range rates {
		detail := byRate[rate]
		detail.TaxableValue = round2(detail.TaxableValue)
		detail.CGST = round2(detail.CGST)
		detail.SGST = round2(detail.SGST)
		detail.IGST = round2(detail.IGST)
		result.Items = append(result.Items, domain.B2BItem{Num: i + 1, Detail: *detail})
	}
	return result
}

func (s *Service) accumulateB2CS(acc map[string]*domain.B2CSEntry, invoice invoicedomain.Invoice, items []invoicedomain.InvoiceItem, pos string) {
	supplyType := "INTRA"
	if invoice.InterState {
		supplyType = "INTER"
	}

	for _, item := range items {
		key := fmt.Sprintf("%s|%s|%s", supplyType, pos, strconv.FormatFloat(item.GSTRate, 'f', -1, 64))
		entry, ok := acc[key]
		if !ok {
			entry = &domain.B2CSEntry{
				SupplyType:    supplyType,
				PlaceOfSupply: pos,
				Type:          "OE",
				Rate:          item.GSTRate,
			}
			acc[key] = entry
		}
		entry.TaxableValue += item.TaxableValue
		entry.CGST += item.CGST
		entry.SGST += item.SGST
		entry.IGST += item.IGST
	}
}

func parsePeriod(period string) (time.Time, time.Time, error) {
	if len(period) != 6 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: want MMYYYY, got %q", domain.ErrInvalidPeriod, period)
	}
	month, err := strconv.Atoi(period[:2])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad month in %q", domain.ErrInvalidPeriod, period)
	}
	year, err := strconv.Atoi(period[2:])
	if err != nil || year < 2017 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad year in %q", domain.ErrInvalidPeriod, period)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
