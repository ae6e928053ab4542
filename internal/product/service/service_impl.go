package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/compliance/validate"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/product/domain"
	"github.com/vyapari/gstbill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	GSTCfg *config.GSTConfigHolder
	Repo   domain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	gstCfg *config.GSTConfigHolder
	repo   domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("product.service"),
		genID:  p.GenID,
		gstCfg: p.GSTCfg,
		repo:   p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Product, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return domain.Product{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if req.Rate < 0 {
		return domain.Product{}, fmt.Errorf("%w: cannot be negative", domain.ErrInvalidRate)
	}
	if req.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: opening stock cannot be negative", domain.ErrInvalidStockDelta)
	}
	if err := s.checkGSTRate(req.GSTRate); err != nil {
		return domain.Product{}, err
	}

	hsn, err := validate.HSNCode(req.HSNCode)
	if err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.Product{}, err
	}
	if existing != nil {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	}

	unit := strings.ToUpper(strings.TrimSpace(req.Unit))
	if unit == "" {
		unit = "PCS"
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		HSNCode:   hsn,
		Unit:      unit,
		Rate:      req.Rate,
		GSTRate:   req.GSTRate,
		Stock:     req.Stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &product); err != nil {
			return err
		}
		if product.Stock > 0 {
			return s.repo.InsertStockEntry(ctx, tx, &domain.StockEntry{
				ID:        s.genID.Generate(),
				ProductID: product.ID,
				Kind:      domain.StockPurchase,
				Delta:     product.Stock,
				Note:      "opening stock",
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)
	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Product, error) {
	product, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.HSNCode != nil {
		hsn, err := validate.HSNCode(*req.HSNCode)
		if err != nil {
			return domain.Product{}, err
		}
		product.HSNCode = hsn
	}
	if req.Unit != nil {
		unit := strings.ToUpper(strings.TrimSpace(*req.Unit))
		if unit != "" {
			product.Unit = unit
		}
	}
	if req.Rate != nil {
		if *req.Rate < 0 {
			return domain.Product{}, fmt.Errorf("%w: cannot be negative", domain.ErrInvalidRate)
		}
		product.Rate = *req.Rate
	}
	if req.GSTRate != nil {
		if err := s.checkGSTRate(*req.GSTRate); err != nil {
			return domain.Product{}, err
		}
		product.GSTRate = *req.GSTRate
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	filter := domain.ListFilter{
		Name:    strings.TrimSpace(req.Name),
		HSNCode: strings.TrimSpace(req.HSNCode),
		Active:  req.Active,
	}
	return s.repo.List(ctx, s.db, filter, req.Pagination.Normalize())
}

func (s *Service) LowStock(ctx context.Context, req domain.LowStockRequest) ([]domain.Product, error) {
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = 10
	}
	return s.repo.ListLowStock(ctx, s.db, threshold, req.Pagination.Normalize())
}

func (s *Service) Archive(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Active = false
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) AdjustStock(ctx context.Context, req domain.AdjustStockRequest) (domain.Product, error) {
	product, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if req.Delta == 0 {
		return domain.Product{}, fmt.Errorf("%w: delta cannot be zero", domain.ErrInvalidStockDelta)
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.StockAdjustment
	}
	if !kind.Valid() {
		return domain.Product{}, fmt.Errorf("%w: unknown kind %s", domain.ErrInvalidStockDelta, req.Kind)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.AdjustStock(ctx, tx, product.ID, req.Delta); err != nil {
			return err
		}
		return s.repo.InsertStockEntry(ctx, tx, &domain.StockEntry{
			ID:        s.genID.Generate(),
			ProductID: product.ID,
			Kind:      kind,
			Delta:     req.Delta,
			Note:      strings.TrimSpace(req.Note),
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return domain.Product{}, err
	}

	refreshed, err := s.repo.FindByID(ctx, s.db, product.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return *refreshed, nil
}

func (s *Service) StockLedger(ctx context.Context, id string, page pagination.Pagination) ([]domain.StockEntry, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListStockEntries(ctx, s.db, product.ID, page.Normalize())
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *Service) checkGSTRate(rate float64) error {
	for _, slab := range s.gstCfg.Get().Rates {
		if rate == slab {
			return nil
		}
	}
	return fmt.Errorf("%w: %.2f is not a recognized slab", domain.ErrInvalidGSTRate, rate)
}
