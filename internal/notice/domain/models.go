// Package domain contains persistence models for fiscal notices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// NoticeStatus represents notice payment states.
type NoticeStatus string

const (
	NoticeStatusUnpaid  NoticeStatus = "UNPAID"
	NoticeStatusPartial NoticeStatus = "PARTIAL"
	NoticeStatusPaid    NoticeStatus = "PAID"
)

// Notice is the fiscal assessment for one taxpayer for one calendar year.
// At most one notice exists per (taxpayer_id, year) pair.
type Notice struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	TaxpayerID  snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_notice_taxpayer_year"`
	Number      string          `gorm:"type:text;not null;uniqueIndex"`
	Year        int             `gorm:"not null;uniqueIndex:ux_notice_taxpayer_year"`
	PeriodStart time.Time       `gorm:"not null"`
	PeriodEnd   time.Time       `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	AmountPaid  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Status      NoticeStatus    `gorm:"type:text;not null;default:'UNPAID'"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`

	Lines []NoticeLine `gorm:"-" json:"lines"`
}

// TableName sets the database table name.
func (Notice) TableName() string { return "notices" }

// NoticeLine is one priced tax on a notice. For the sanitation line the
// flat category amount is reused as the rate and the base amount is 1.
type NoticeLine struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	NoticeID   snowflake.ID    `gorm:"not null;index"`
	Position   int             `gorm:"not null"`
	TaxCode    string          `gorm:"type:text;not null"`
	TaxLabel   string          `gorm:"type:text;not null"`
	TaxRate    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BaseAmount decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (NoticeLine) TableName() string { return "notice_lines" }
