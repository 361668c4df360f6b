package repository

import (
	"context"

	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	"github.com/opencommune/fiscalis/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auditdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, req auditdomain.ListAuditLogRequest) ([]auditdomain.AuditLog, error) {
	filter := &auditdomain.AuditLog{
		Action:     req.Action,
		TargetType: req.TargetType,
	}
	if req.TargetID != "" {
		filter.TargetID = &req.TargetID
	}

	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	stmt := r.db.WithContext(ctx).Where(filter)
	stmt = option.WithSortBy(option.QuerySortBy{
		Allow:   map[string]bool{"created_at": true},
		Field:   "created_at",
		Desc:    true,
		Default: "created_at",
	}).Apply(stmt)
	stmt = option.WithLimit(limit).Apply(stmt)

	var entries []auditdomain.AuditLog
	if err := stmt.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
