// Package domain contains persistence models for taxpayers and their
// declared measures.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TaxpayerStatus represents taxpayer lifecycle states.
type TaxpayerStatus string

const (
	TaxpayerStatusPending  TaxpayerStatus = "PENDING"
	TaxpayerStatusActive   TaxpayerStatus = "ACTIVE"
	TaxpayerStatusArchived TaxpayerStatus = "ARCHIVED"
)

// Taxpayer is a registered contributor. Code stays nil until the first
// notice is generated and is never regenerated afterward.
type Taxpayer struct {
	ID           snowflake.ID   `gorm:"primaryKey"`
	Name         string         `gorm:"type:text;not null"`
	Status       TaxpayerStatus `gorm:"type:text;not null;default:'PENDING'"`
	Category     string         `gorm:"type:text;not null;index"`
	Commune      string         `gorm:"type:text;not null;index"`
	Neighborhood string         `gorm:"type:text"`
	GroupID      *snowflake.ID  `gorm:"index"`
	Code         *string        `gorm:"type:text;uniqueIndex"`
	StartedAt    *time.Time     `gorm:""`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Taxpayer) TableName() string { return "taxpayers" }

// Measure is a taxpayer-declared quantity for one tax type.
type Measure struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	TaxpayerID snowflake.ID    `gorm:"not null;index"`
	TaxID      snowflake.ID    `gorm:"not null;index"`
	Quantity   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Measure) TableName() string { return "measures" }

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidCommune = errors.New("invalid_commune")
	ErrInvalidMeasure = errors.New("invalid_measure")
	ErrNotFound       = errors.New("taxpayer_not_found")
)
