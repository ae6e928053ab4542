package domain

import (
	"context"

	"github.com/vyapari/gstbill/pkg/db/pagination"
)

type CreateRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	HSNCode string  `json:"hsn_code"`
	Unit    string  `json:"unit"`
	Rate    float64 `json:"rate"`
	GSTRate float64 `json:"gst_rate"`
	Stock   float64 `json:"stock"`
}

type UpdateRequest struct {
	ID      string   `json:"-"`
	Name    *string  `json:"name"`
	HSNCode *string  `json:"hsn_code"`
	Unit    *string  `json:"unit"`
	Rate    *float64 `json:"rate"`
	GSTRate *float64 `json:"gst_rate"`
	Active  *bool    `json:"active"`
}

type ListRequest struct {
	pagination.Pagination
	Name    string `form:"name"`
	HSNCode string `form:"hsn_code"`
	Active  *bool  `form:"active"`
}

type ListFilter struct {
	Name    string
	HSNCode string
	Active  *bool
}

type LowStockRequest struct {
	pagination.Pagination
	// Threshold defaults to 10 units when not given.
	Threshold float64 `form:"threshold"`
}

type AdjustStockRequest struct {
	ID    string         `json:"-"`
	Kind  StockEntryKind `json:"kind"`
	Delta float64        `json:"delta"`
	Note  string         `json:"note"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Product, error)
	Update(ctx context.Context, req UpdateRequest) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	LowStock(ctx context.Context, req LowStockRequest) ([]Product, error)
	Archive(ctx context.Context, id string) (Product, error)
	AdjustStock(ctx context.Context, req AdjustStockRequest) (Product, error)
	StockLedger(ctx context.Context, id string, page pagination.Pagination) ([]StockEntry, error)
}
