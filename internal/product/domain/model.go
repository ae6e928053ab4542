package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Product struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"not null;uniqueIndex" json:"code"`
	Name      string       `gorm:"not null" json:"name"`
	HSNCode   string       `json:"hsn_code,omitempty"`
	Unit      string       `gorm:"not null;default:PCS" json:"unit"`
	Rate      float64      `gorm:"not null" json:"rate"`
	GSTRate   float64      `gorm:"not null" json:"gst_rate"`
	Stock     float64      `gorm:"not null;default:0" json:"stock"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type StockEntryKind string

const (
	StockPurchase   StockEntryKind = "PURCHASE"
	StockSale       StockEntryKind = "SALE"
	StockReturn     StockEntryKind = "RETURN"
	StockCancelled  StockEntryKind = "CANCELLED"
	StockAdjustment StockEntryKind = "ADJUSTMENT"
)

func (k StockEntryKind) Valid() bool {
	switch k {
	case StockPurchase, StockSale, StockReturn, StockCancelled, StockAdjustment:
		return true
	}
	return false
}

// StockEntry is an append-only movement record; Product.Stock is the
// running sum of Delta per product.
type StockEntry struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProductID snowflake.ID   `gorm:"not null;index" json:"product_id"`
	Kind      StockEntryKind `gorm:"not null" json:"kind"`
	Delta     float64        `gorm:"not null" json:"delta"`
	Reference string         `gorm:"index" json:"reference,omitempty"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
