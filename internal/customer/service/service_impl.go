package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/compliance/validate"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/customer/domain"
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
		log:    p.Log.Named("customer.service"),
		genID:  p.GenID,
		gstCfg: p.GSTCfg,
		repo:   p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if req.CreditLimit < 0 {
		return domain.Customer{}, fmt.Errorf("%w: cannot be negative", domain.ErrInvalidCreditLimit)
	}

	gstin, err := validate.GSTIN(req.GSTIN)
	if err != nil {
		return domain.Customer{}, err
	}
	stateCode, err := validate.StateCode(req.StateCode)
	if err != nil {
		return domain.Customer{}, err
	}
	pinCode, err := validate.PINCode(req.PINCode)
	if err != nil {
		return domain.Customer{}, err
	}

	// A registered buyer's state comes off their GSTIN when not given
	// explicitly; place-of-supply depends on it.
	if stateCode == "" && gstin != "" {
		stateCode = gstin[:2]
	}

	if gstin != "" {
		existing, err := s.repo.FindByGSTIN(ctx, s.db, gstin)
		if err != nil {
			return domain.Customer{}, err
		}
		if existing != nil {
			return domain.Customer{}, fmt.Errorf("%w: %s", domain.ErrDuplicateGSTIN, gstin)
		}
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:          s.genID.Generate(),
		Name:        name,
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		GSTIN:       gstin,
		StateCode:   stateCode,
		Address:     strings.TrimSpace(req.Address),
		PINCode:     pinCode,
		CreditLimit: req.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("gstin", customer.GSTIN),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id, err := s.ParseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		customer.Name = name
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.GSTIN != nil {
		gstin, err := validate.GSTIN(*req.GSTIN)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.GSTIN = gstin
	}
	if req.StateCode != nil {
		stateCode, err := validate.StateCode(*req.StateCode)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.StateCode = stateCode
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.PINCode != nil {
		pinCode, err := validate.PINCode(*req.PINCode)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.PINCode = pinCode
	}
	if req.CreditLimit != nil {
		if *req.CreditLimit < 0 {
			return domain.Customer{}, fmt.Errorf("%w: cannot be negative", domain.ErrInvalidCreditLimit)
		}
		customer.CreditLimit = *req.CreditLimit
	}

	customer.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Name:  strings.TrimSpace(req.Name),
		GSTIN: strings.ToUpper(strings.TrimSpace(req.GSTIN)),
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination.Normalize())
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		customers = append(customers, *item)
	}
	return domain.ListCustomerResponse{Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Customer, error) {
	id, err := s.ParseID(rawID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

// EvaluateCredit classifies the customer's standing before additionalAmount
// is booked. A zero limit means no credit is extended, so there is nothing
// to breach; any balance is informational.
func (s *Service) EvaluateCredit(ctx context.Context, id snowflake.ID, additionalAmount float64) (domain.CreditAssessment, error) {
	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CreditAssessment{}, err
	}
	if customer == nil {
		return domain.CreditAssessment{}, domain.ErrNotFound
	}

	assessment := domain.CreditAssessment{
		Status:           domain.CreditOK,
		CreditLimit:      customer.CreditLimit,
		CreditBalance:    customer.CreditBalance,
		ProjectedBalance: customer.CreditBalance + additionalAmount,
	}
	if customer.CreditLimit <= 0 {
		return assessment, nil
	}

	warnRatio := s.gstCfg.Get().CreditWarningRatio
	switch {
	case customer.CreditBalance >= customer.CreditLimit:
		assessment.Status = domain.CreditExceeded
		assessment.Message = fmt.Sprintf("credit balance %.2f has reached the limit %.2f", customer.CreditBalance, customer.CreditLimit)
	case customer.CreditBalance/customer.CreditLimit >= warnRatio:
		assessment.Status = domain.CreditWarning
		assessment.Message = fmt.Sprintf("credit balance %.2f is above %.0f%% of the limit %.2f", customer.CreditBalance, warnRatio*100, customer.CreditLimit)
	}
	return assessment, nil
}

func (s *Service) RecordPayment(ctx context.Context, rawID string, amount float64) (domain.Customer, error) {
	id, err := s.ParseID(rawID)
	if err != nil {
		return domain.Customer{}, err
	}
	if amount <= 0 {
		return domain.Customer{}, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidCreditLimit)
	}

	var settled domain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}

		// Never drive the balance negative; an overpayment settles in full.
		delta := -amount
		if amount > customer.CreditBalance {
			delta = -customer.CreditBalance
		}
		if err := s.repo.AdjustCreditBalance(ctx, tx, id, delta); err != nil {
			return err
		}

		refreshed, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		settled = *refreshed
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("payment recorded",
		zap.String("customer_id", settled.ID.String()),
		zap.Float64("amount", amount),
		zap.Float64("credit_balance", settled.CreditBalance),
	)
	return settled, nil
}

func (s *Service) ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
