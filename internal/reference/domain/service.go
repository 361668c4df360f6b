package domain

import (
	"context"
	"errors"
)

type CreateCategoryRequest struct {
	Label            string `json:"label"`
	Code             string `json:"code"`
	SanitationAmount string `json:"sanitation_amount"`
}

type CreateCommuneRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type CreateTaxRequest struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Rate   string `json:"rate"`
	Active *bool  `json:"active"`
}

type Service interface {
	ListCategories(ctx context.Context) ([]TaxpayerCategory, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*TaxpayerCategory, error)
	ListCommunes(ctx context.Context) ([]Commune, error)
	CreateCommune(ctx context.Context, req CreateCommuneRequest) (*Commune, error)
	ListTaxes(ctx context.Context) ([]Tax, error)
	CreateTax(ctx context.Context, req CreateTaxRequest) (*Tax, error)
}

// Repository exposes the reference lookups the calculation engine needs.
type Repository interface {
	CategoryByLabel(ctx context.Context, label string) (*TaxpayerCategory, error)
	CommuneByName(ctx context.Context, name string) (*Commune, error)
	ActiveTaxes(ctx context.Context) ([]Tax, error)
}

var (
	ErrInvalidLabel = errors.New("invalid_label")
	ErrInvalidCode  = errors.New("invalid_code")
	ErrInvalidRate  = errors.New("invalid_rate")
	ErrDuplicate    = errors.New("duplicate_reference")
)
