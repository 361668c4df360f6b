package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
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
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	taxpayerrepo repository.Repository[taxpayerdomain.Taxpayer]
	measurerepo  repository.Repository[taxpayerdomain.Measure]
}

func NewService(p ServiceParam) taxpayerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("taxpayer.service"),
		genID: p.GenID,

		taxpayerrepo: repository.ProvideStore[taxpayerdomain.Taxpayer](p.DB),
		measurerepo:  repository.ProvideStore[taxpayerdomain.Measure](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req taxpayerdomain.CreateTaxpayerRequest) (*taxpayerdomain.Taxpayer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, taxpayerdomain.ErrInvalidName
	}
	commune := strings.TrimSpace(req.Commune)
	if commune == "" {
		return nil, taxpayerdomain.ErrInvalidCommune
	}

	var groupID *snowflake.ID
	if raw := strings.TrimSpace(req.GroupID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err == nil {
			groupID = &parsed
		}
	}

	var startedAt *time.Time
	if raw := strings.TrimSpace(req.StartedAt); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err == nil {
			startedAt = &parsed
		}
	}

	now := time.Now().UTC()
	record := &taxpayerdomain.Taxpayer{
		ID:           s.genID.Generate(),
		Name:         name,
		Status:       taxpayerdomain.TaxpayerStatusPending,
		Category:     strings.TrimSpace(req.Category),
		Commune:      commune,
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		GroupID:      groupID,
		StartedAt:    startedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.taxpayerrepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req taxpayerdomain.ListTaxpayerRequest) ([]taxpayerdomain.Taxpayer, error) {
	filter := &taxpayerdomain.Taxpayer{
		Status:       taxpayerdomain.TaxpayerStatus(strings.TrimSpace(req.Status)),
		Category:     strings.TrimSpace(req.Category),
		Commune:      strings.TrimSpace(req.Commune),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
	}

	items, err := s.taxpayerrepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	taxpayers := make([]taxpayerdomain.Taxpayer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		taxpayers = append(taxpayers, *item)
	}
	return taxpayers, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*taxpayerdomain.Taxpayer, error) {
	taxpayerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, taxpayerdomain.ErrNotFound
	}

	item, err := s.taxpayerrepo.FindOne(ctx, &taxpayerdomain.Taxpayer{ID: taxpayerID})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxpayerdomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*taxpayerdomain.Taxpayer, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != taxpayerdomain.TaxpayerStatusPending {
		return nil, taxpayerdomain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	if err := s.taxpayerrepo.Update(ctx, item.ID.String(), map[string]any{
		"status":     taxpayerdomain.TaxpayerStatusActive,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	item.Status = taxpayerdomain.TaxpayerStatusActive
	item.UpdatedAt = now
	return item, nil
}

func (s *Service) DeclareMeasure(ctx context.Context, taxpayerID string, req taxpayerdomain.DeclareMeasureRequest) (*taxpayerdomain.Measure, error) {
	owner, err := s.GetByID(ctx, taxpayerID)
	if err != nil {
		return nil, err
	}

	taxID, err := snowflake.ParseString(strings.TrimSpace(req.TaxID))
	if err != nil {
		return nil, taxpayerdomain.ErrInvalidMeasure
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(req.Quantity))
	if err != nil {
		return nil, taxpayerdomain.ErrInvalidMeasure
	}

	now := time.Now().UTC()
	existing, err := s.measurerepo.FindOne(ctx, &taxpayerdomain.Measure{TaxpayerID: owner.ID, TaxID: taxID})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.measurerepo.Update(ctx, existing.ID.String(), map[string]any{
			"quantity":   quantity,
			"updated_at": now,
		}); err != nil {
			return nil, err
		}
		existing.Quantity = quantity
		existing.UpdatedAt = now
		return existing, nil
	}

	record := &taxpayerdomain.Measure{
		ID:         s.genID.Generate(),
		TaxpayerID: owner.ID,
		TaxID:      taxID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.measurerepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
