package repository

import (
	"context"

	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) referencedomain.Repository {
	return &repository{db: db}
}

func (r *repository) CategoryByLabel(ctx context.Context, label string) (*referencedomain.TaxpayerCategory, error) {
	var category referencedomain.TaxpayerCategory
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, label, code, sanitation_amount, created_at, updated_at
		 FROM taxpayer_categories
		 WHERE label = ?
		 LIMIT 1`,
		label,
	).Scan(&category).Error
	if err != nil {
		return nil, err
	}
	if category.ID == 0 {
		return nil, nil
	}
	return &category, nil
}

func (r *repository) CommuneByName(ctx context.Context, name string) (*referencedomain.Commune, error) {
	var commune referencedomain.Commune
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, code, created_at, updated_at
		 FROM communes
		 WHERE name = ?
		 LIMIT 1`,
		name,
	).Scan(&commune).Error
	if err != nil {
		return nil, err
	}
	if commune.ID == 0 {
		return nil, nil
	}
	return &commune, nil
}

func (r *repository) ActiveTaxes(ctx context.Context) ([]referencedomain.Tax, error) {
	var taxes []referencedomain.Tax
	err := r.db.WithContext(ctx).
		Model(&referencedomain.Tax{}).
		Where("active = ?", true).
		Order("code ASC").
		Find(&taxes).Error
	if err != nil {
		return nil, err
	}
	return taxes, nil
}
