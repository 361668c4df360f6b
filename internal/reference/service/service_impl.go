package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	"github.com/opencommune/fiscalis/pkg/db"
	"github.com/opencommune/fiscalis/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node

	categoryrepo repository.Repository[referencedomain.TaxpayerCategory]
	communerepo  repository.Repository[referencedomain.Commune]
	taxrepo      repository.Repository[referencedomain.Tax]
}

func NewService(p ServiceParam) referencedomain.Service {
	return &Service{
		log:   p.Log.Named("reference.service"),
		genID: p.GenID,

		categoryrepo: repository.ProvideStore[referencedomain.TaxpayerCategory](p.DB),
		communerepo:  repository.ProvideStore[referencedomain.Commune](p.DB),
		taxrepo:      repository.ProvideStore[referencedomain.Tax](p.DB),
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]referencedomain.TaxpayerCategory, error) {
	items, err := s.categoryrepo.Find(ctx, &referencedomain.TaxpayerCategory{})
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) CreateCategory(ctx context.Context, req referencedomain.CreateCategoryRequest) (*referencedomain.TaxpayerCategory, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, referencedomain.ErrInvalidLabel
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, referencedomain.ErrInvalidCode
	}

	amount := decimal.Zero
	if raw := strings.TrimSpace(req.SanitationAmount); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return nil, referencedomain.ErrInvalidRate
		}
		amount = parsed
	}

	now := time.Now().UTC()
	record := &referencedomain.TaxpayerCategory{
		ID:               s.genID.Generate(),
		Label:            label,
		Code:             code,
		SanitationAmount: amount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.categoryrepo.Create(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, referencedomain.ErrDuplicate
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) ListCommunes(ctx context.Context) ([]referencedomain.Commune, error) {
	items, err := s.communerepo.Find(ctx, &referencedomain.Commune{})
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) CreateCommune(ctx context.Context, req referencedomain.CreateCommuneRequest) (*referencedomain.Commune, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, referencedomain.ErrInvalidLabel
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, referencedomain.ErrInvalidCode
	}

	now := time.Now().UTC()
	record := &referencedomain.Commune{
		ID:        s.genID.Generate(),
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.communerepo.Create(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, referencedomain.ErrDuplicate
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) ListTaxes(ctx context.Context) ([]referencedomain.Tax, error) {
	items, err := s.taxrepo.Find(ctx, &referencedomain.Tax{})
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) CreateTax(ctx context.Context, req referencedomain.CreateTaxRequest) (*referencedomain.Tax, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, referencedomain.ErrInvalidCode
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, referencedomain.ErrInvalidLabel
	}

	rate := decimal.Zero
	if raw := strings.TrimSpace(req.Rate); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return nil, referencedomain.ErrInvalidRate
		}
		rate = parsed
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	record := &referencedomain.Tax{
		ID:        s.genID.Generate(),
		Code:      code,
		Label:     label,
		Rate:      rate,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.taxrepo.Create(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, referencedomain.ErrDuplicate
		}
		return nil, err
	}
	return record, nil
}

func dereference[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out
}
