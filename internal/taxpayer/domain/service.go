package domain

import "context"

type CreateTaxpayerRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Commune      string `json:"commune"`
	Neighborhood string `json:"neighborhood"`
	GroupID      string `json:"group_id"`
	StartedAt    string `json:"started_at"`
}

type ListTaxpayerRequest struct {
	Status       string
	Category     string
	Commune      string
	Neighborhood string
}

type DeclareMeasureRequest struct {
	TaxID    string `json:"tax_id"`
	Quantity string `json:"quantity"`
}

type Service interface {
	Create(ctx context.Context, req CreateTaxpayerRequest) (*Taxpayer, error)
	List(ctx context.Context, req ListTaxpayerRequest) ([]Taxpayer, error)
	GetByID(ctx context.Context, id string) (*Taxpayer, error)
	Approve(ctx context.Context, id string) (*Taxpayer, error)
	DeclareMeasure(ctx context.Context, taxpayerID string, req DeclareMeasureRequest) (*Measure, error)
}
