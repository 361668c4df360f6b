package domain

import (
	"context"
	"errors"
)

// Scope is the administrative level a bulk generation run targets.
type Scope string

const (
	ScopeGlobal       Scope = "GLOBAL"
	ScopeCommune      Scope = "COMMUNE"
	ScopeNeighborhood Scope = "NEIGHBORHOOD"
)

// BulkGenerateRequest is the raw batch payload. All fields are string-typed
// and individually optional except Year; the filter resolver validates and
// normalizes them.
type BulkGenerateRequest struct {
	Year         string `json:"year"`
	Scope        string `json:"scope"`
	Category     string `json:"category"`
	Commune      string `json:"commune"`
	Neighborhood string `json:"neighborhood"`
	GroupID      string `json:"group_id"`
	StartedFrom  string `json:"started_from"`
	StartedTo    string `json:"started_to"`
}

// BulkError names one taxpayer whose calculation failed.
type BulkError struct {
	TaxpayerName string `json:"taxpayer_name"`
	Message      string `json:"message"`
}

// BulkReport summarizes a bulk generation run.
type BulkReport struct {
	Matched                 int         `json:"matched"`
	Generated               int         `json:"generated"`
	Existing                int         `json:"existing"`
	Failed                  int         `json:"failed"`
	SkippedMissingStartedAt int         `json:"skipped_missing_started_at"`
	Errors                  []BulkError `json:"errors"`
	Message                 string      `json:"message,omitempty"`
}

type Service interface {
	// Calculate computes and persists the notice for one taxpayer and year.
	// It is idempotent per (taxpayer, year): an existing notice is returned
	// unchanged with no further writes.
	Calculate(ctx context.Context, taxpayerID string, year int) (*Notice, error)

	// BulkGenerate drives calculation across a filtered population for one
	// target year with per-item failure isolation. The operator's scope
	// restriction is read from the context.
	BulkGenerate(ctx context.Context, req BulkGenerateRequest) (BulkReport, error)
}

var (
	ErrTaxpayerNotFound = errors.New("taxpayer_not_found")
	ErrTaxpayerPending  = errors.New("taxpayer_awaiting_approval")
	ErrConfigMissing    = errors.New("config_missing")
	ErrInvalidFilter    = errors.New("invalid_filter")
	ErrInvalidYear      = errors.New("invalid_year")
)
