package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultCommuneName  = "Commune I"
	defaultCommuneCode  = "C1"
	sanitationTaxLabel  = "Sanitation tax"
	defaultCategoryName = "General"
	defaultCategoryCode = "GEN"
)

// EnsureReferenceData seeds the sanitation tax and default reference records
// for startup bootstrap. Existing records are never modified.
func EnsureReferenceData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSanitationTax(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureDefaultCommune(ctx, tx, node); err != nil {
			return err
		}
		return ensureDefaultCategory(ctx, tx, node)
	})
}

func ensureSanitationTax(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&referencedomain.Tax{}).
		Where("code = ?", referencedomain.TaxCodeSanitation).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&referencedomain.Tax{
		ID:        node.Generate(),
		Code:      referencedomain.TaxCodeSanitation,
		Label:     sanitationTaxLabel,
		Rate:      decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func ensureDefaultCommune(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&referencedomain.Commune{}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&referencedomain.Commune{
		ID:        node.Generate(),
		Name:      defaultCommuneName,
		Code:      defaultCommuneCode,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func ensureDefaultCategory(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&referencedomain.TaxpayerCategory{}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&referencedomain.TaxpayerCategory{
		ID:               node.Generate(),
		Label:            defaultCategoryName,
		Code:             defaultCategoryCode,
		SanitationAmount: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}).Error
}
