// Package domain contains persistence models for fiscal reference data.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TaxCodeSanitation is the distinguished sanitation tax. It is billed at the
// taxpayer category's flat sanitation amount instead of rate times quantity.
// Do NOT rename or repurpose once notices reference it.
const TaxCodeSanitation = "SANITATION"

// TaxpayerCategory groups taxpayers and carries the flat sanitation fee.
type TaxpayerCategory struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	Label            string          `gorm:"type:text;not null"`
	Code             string          `gorm:"type:text;not null"`
	SanitationAmount decimal.Decimal `gorm:"column:sanitation_amount;type:numeric(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxpayerCategory) TableName() string { return "taxpayer_categories" }

// Commune is an administrative territory. Its code participates in
// taxpayer-code and notice-number scope prefixes.
type Commune struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Code      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Commune) TableName() string { return "communes" }

// Tax is a billable tax type. Only active taxes participate in calculation.
type Tax struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Code      string          `gorm:"type:text;not null"`
	Label     string          `gorm:"type:text;not null"`
	Rate      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tax) TableName() string { return "taxes" }

// IsSanitation reports whether the tax is the flat sanitation tax.
func (t Tax) IsSanitation() bool { return t.Code == TaxCodeSanitation }
