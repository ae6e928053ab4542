package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	GSTIN       string  `json:"gstin"`
	StateCode   string  `json:"state_code"`
	Address     string  `json:"address"`
	PINCode     string  `json:"pin_code"`
	CreditLimit float64 `json:"credit_limit"`
}

type UpdateCustomerRequest struct {
	ID          string   `json:"-"`
	Name        *string  `json:"name"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	GSTIN       *string  `json:"gstin"`
	StateCode   *string  `json:"state_code"`
	Address     *string  `json:"address"`
	PINCode     *string  `json:"pin_code"`
	CreditLimit *float64 `json:"credit_limit"`
}

type ListCustomerRequest struct {
	pagination.Pagination
	Name  string `form:"name"`
	GSTIN string `form:"gstin"`
}

type ListCustomerFilter struct {
	Name  string
	GSTIN string
}

type ListCustomerResponse struct {
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)

	// EvaluateCredit reports where the customer stands against their limit
	// before additionalAmount is booked.
	EvaluateCredit(ctx context.Context, id snowflake.ID, additionalAmount float64) (CreditAssessment, error)

	// RecordPayment settles outstanding credit, never below zero.
	RecordPayment(ctx context.Context, id string, amount float64) (Customer, error)

	ParseID(value string) (snowflake.ID, error)
}
