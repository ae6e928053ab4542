package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/customer/domain"
	"github.com/vyapari/gstbill/internal/customer/repository"
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
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

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

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:        "Malabar Traders",
		GSTIN:       "32abcde1234f1z5",
		CreditLimit: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, "32ABCDE1234F1Z5", created.GSTIN)
	// State comes off the GSTIN when not supplied.
	assert.Equal(t, "32", created.StateCode)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, 100000.0, got.CreditLimit)
	assert.Equal(t, 0.0, got.CreditBalance)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "A", CreditLimit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidCreditLimit)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "A", GSTIN: "32ABCDE1234F1Z"})
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidRegistrationFormat)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "A", StateCode: "99"})
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidStateCode)
}

func TestCreate_DuplicateGSTIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "First", GSTIN: "32ABCDE1234F1Z5"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Second", GSTIN: "32ABCDE1234F1Z5"})
	assert.ErrorIs(t, err, domain.ErrDuplicateGSTIN)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Old Name", StateCode: "32"})
	require.NoError(t, err)

	name := "New Name"
	limit := 5000.0
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:          created.ID.String(),
		Name:        &name,
		CreditLimit: &limit,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 5000.0, updated.CreditLimit)
	assert.Equal(t, "32", updated.StateCode)

	bad := ""
	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{ID: created.ID.String(), Name: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Anand Stores", "Anand Agencies", "Beta Mart"} {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: name, StateCode: "32"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 3)

	filtered, err := svc.List(ctx, domain.ListCustomerRequest{Name: "Anand"})
	require.NoError(t, err)
	assert.Len(t, filtered.Customers, 2)
}

func TestEvaluateCredit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		limit   float64
		balance float64
		want    domain.CreditStatus
	}{
		{"no credit extended", 0, 2500, domain.CreditOK},
		{"well under limit", 10000, 1000, domain.CreditOK},
		{"just under warning", 10000, 7999.99, domain.CreditOK},
		{"at warning ratio", 10000, 8000, domain.CreditWarning},
		{"at limit", 10000, 10000, domain.CreditExceeded},
		{"over limit", 10000, 12000, domain.CreditExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := svc.Create(ctx, domain.CreateCustomerRequest{
				Name:        tc.name,
				StateCode:   "32",
				CreditLimit: tc.limit,
			})
			require.NoError(t, err)

			if tc.balance != 0 {
				require.NoError(t, svc.(*Service).repo.AdjustCreditBalance(ctx, svc.(*Service).db, created.ID, tc.balance))
			}

			got, err := svc.EvaluateCredit(ctx, created.ID, 500)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
			assert.Equal(t, tc.balance+500, got.ProjectedBalance)
		})
	}
}

func TestRecordPayment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Debtor", StateCode: "32", CreditLimit: 10000})
	require.NoError(t, err)
	require.NoError(t, svc.(*Service).repo.AdjustCreditBalance(ctx, svc.(*Service).db, created.ID, 6000))

	settled, err := svc.RecordPayment(ctx, created.ID.String(), 2500)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, settled.CreditBalance)

	// Overpayment settles in full, never negative.
	settled, err = svc.RecordPayment(ctx, created.ID.String(), 99999)
	require.NoError(t, err)
	assert.Equal(t, 0.0, settled.CreditBalance)

	_, err = svc.RecordPayment(ctx, created.ID.String(), -5)
	assert.Error(t, err)
}
