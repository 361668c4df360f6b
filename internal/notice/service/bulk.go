package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	"github.com/opencommune/fiscalis/internal/operatorctx"
	"go.uber.org/zap"
)

type bulkCandidate struct {
	ID   snowflake.ID
	Name string
}

func (s *Service) BulkGenerate(ctx context.Context, req noticedomain.BulkGenerateRequest) (noticedomain.BulkReport, error) {
	year, err := strconv.Atoi(strings.TrimSpace(req.Year))
	if err != nil || year <= 0 {
		return noticedomain.BulkReport{}, noticedomain.ErrInvalidYear
	}

	// Non-super-administrators are confined to their home commune.
	scopedCommune := ""
	if op, ok := operatorctx.FromContext(ctx); ok {
		scopedCommune = op.ScopedCommune()
	}

	filters, err := resolveBulkFilters(req, scopedCommune)
	if err != nil {
		return noticedomain.BulkReport{}, err
	}

	candidates, err := s.loadCandidates(ctx, filters)
	if err != nil {
		return noticedomain.BulkReport{}, err
	}

	report := noticedomain.BulkReport{Errors: []noticedomain.BulkError{}}

	if filters.hasDateFilter() {
		skipped, err := s.countMissingStartedAt(ctx, filters)
		if err != nil {
			return noticedomain.BulkReport{}, err
		}
		report.SkippedMissingStartedAt = int(skipped)
	}

	report.Matched = len(candidates)
	if report.Matched == 0 {
		report.Message = "no taxpayers matched the requested filters"
		return report, nil
	}

	existing, err := s.taxpayersWithNotice(ctx, year)
	if err != nil {
		return noticedomain.BulkReport{}, err
	}

	for _, candidate := range candidates {
		if existing[candidate.ID] {
			report.Existing++
			continue
		}

		if _, err := s.Calculate(ctx, candidate.ID.String(), year); err != nil {
			report.Failed++
			bulkItemFailures.Inc()
			if len(report.Errors) < s.errorSampleSize {
				report.Errors = append(report.Errors, noticedomain.BulkError{
					TaxpayerName: candidate.Name,
					Message:      err.Error(),
				})
			}
			s.log.Warn("bulk notice generation item failed",
				zap.String("taxpayer_id", candidate.ID.String()),
				zap.Int("year", year),
				zap.Error(err))
			continue
		}
		report.Generated++
	}

	s.emitBulkAudit(ctx, year, filters, report)
	return report, nil
}

func (s *Service) loadCandidates(ctx context.Context, filters bulkFilters) ([]bulkCandidate, error) {
	var candidates []bulkCandidate
	stmt := s.db.WithContext(ctx).
		Table("taxpayers").
		Select("id", "name")
	stmt = filters.apply(stmt)
	if err := stmt.Order("id ASC").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *Service) countMissingStartedAt(ctx context.Context, filters bulkFilters) (int64, error) {
	var count int64
	stmt := s.db.WithContext(ctx).Table("taxpayers")
	stmt = filters.applyMissingStartedAt(stmt)
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) taxpayersWithNotice(ctx context.Context, year int) (map[snowflake.ID]bool, error) {
	var ids []snowflake.ID
	err := s.db.WithContext(ctx).
		Table("notices").
		Select("taxpayer_id").
		Where("year = ?", year).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[snowflake.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *Service) emitBulkAudit(ctx context.Context, year int, filters bulkFilters, report noticedomain.BulkReport) {
	if s.auditSvc == nil {
		return
	}
	metadata := map[string]any{
		"year":                       year,
		"scope":                      string(filters.scope),
		"category":                   filters.category,
		"commune":                    filters.commune,
		"neighborhood":               filters.neighborhood,
		"matched":                    report.Matched,
		"generated":                  report.Generated,
		"existing":                   report.Existing,
		"failed":                     report.Failed,
		"skipped_missing_started_at": report.SkippedMissingStartedAt,
	}
	if filters.groupID != nil {
		metadata["group_id"] = filters.groupID.String()
	}
	_ = s.auditSvc.AuditLog(ctx, "notice.bulk_generated", "notice_batch", nil, metadata)
}
