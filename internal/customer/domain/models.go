package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null;index" json:"name"`
	Phone         string       `json:"phone,omitempty"`
	Email         string       `json:"email,omitempty"`
	GSTIN         string       `gorm:"index" json:"gstin,omitempty"`
	StateCode     string       `gorm:"not null" json:"state_code"`
	Address       string       `json:"address,omitempty"`
	PINCode       string       `json:"pin_code,omitempty"`
	CreditLimit   float64      `gorm:"not null;default:0" json:"credit_limit"`
	CreditBalance float64      `gorm:"not null;default:0" json:"credit_balance"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type CreditStatus string

const (
	CreditOK       CreditStatus = "OK"
	CreditWarning  CreditStatus = "WARNING"
	CreditExceeded CreditStatus = "EXCEEDED"
)

// CreditAssessment is advisory. EXCEEDED never blocks an invoice by itself;
// the caller decides whether to demand confirmation.
type CreditAssessment struct {
	Status           CreditStatus `json:"status"`
	CreditLimit      float64      `json:"credit_limit"`
	CreditBalance    float64      `json:"credit_balance"`
	ProjectedBalance float64      `json:"projected_balance"`
	Message          string       `json:"message,omitempty"`
}
