package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// bulkFilters is the validated, scope-consistent selection over taxpayers.
type bulkFilters struct {
	scope        noticedomain.Scope
	category     string
	commune      string
	neighborhood string
	groupID      *snowflake.ID
	startedFrom  *time.Time
	startedTo    *time.Time
}

// resolveBulkFilters normalizes the raw batch request. scopedCommune is the
// operator's own administrative boundary; when set it overrides the resolved
// commune regardless of the requested scope.
func resolveBulkFilters(req noticedomain.BulkGenerateRequest, scopedCommune string) (bulkFilters, error) {
	filters := bulkFilters{
		category: strings.TrimSpace(req.Category),
	}

	scope := noticedomain.Scope(strings.ToUpper(strings.TrimSpace(req.Scope)))
	if scope == "" {
		scope = noticedomain.ScopeGlobal
	}

	commune := strings.TrimSpace(req.Commune)
	neighborhood := strings.TrimSpace(req.Neighborhood)

	switch scope {
	case noticedomain.ScopeGlobal:
		// Commune/neighborhood filters are meaningless at global scope.
		commune = ""
		neighborhood = ""
	case noticedomain.ScopeCommune:
		if commune == "" {
			return bulkFilters{}, fmt.Errorf("%w: commune is required for COMMUNE scope", noticedomain.ErrInvalidFilter)
		}
		neighborhood = ""
	case noticedomain.ScopeNeighborhood:
		if commune == "" {
			return bulkFilters{}, fmt.Errorf("%w: commune is required for NEIGHBORHOOD scope", noticedomain.ErrInvalidFilter)
		}
		if neighborhood == "" {
			return bulkFilters{}, fmt.Errorf("%w: neighborhood is required for NEIGHBORHOOD scope", noticedomain.ErrInvalidFilter)
		}
	default:
		return bulkFilters{}, fmt.Errorf("%w: unknown scope %q", noticedomain.ErrInvalidFilter, req.Scope)
	}

	// Row-level operator isolation wins over the requested scope.
	if scopedCommune = strings.TrimSpace(scopedCommune); scopedCommune != "" {
		commune = scopedCommune
	}

	filters.scope = scope
	filters.commune = commune
	filters.neighborhood = neighborhood

	if raw := strings.TrimSpace(req.GroupID); raw != "" {
		if parsed, err := snowflake.ParseString(raw); err == nil {
			filters.groupID = &parsed
		}
	}

	// Malformed dates are treated as absent rather than rejected.
	if raw := strings.TrimSpace(req.StartedFrom); raw != "" {
		if parsed, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
			filters.startedFrom = &parsed
		}
	}
	if raw := strings.TrimSpace(req.StartedTo); raw != "" {
		if parsed, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
			endOfDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
			filters.startedTo = &endOfDay
		}
	}

	return filters, nil
}

func (f bulkFilters) hasDateFilter() bool {
	return f.startedFrom != nil || f.startedTo != nil
}

// applyBase constrains a taxpayer statement to the resolved scope. Active
// taxpayers only; the date range is not applied here.
func (f bulkFilters) applyBase(stmt *gorm.DB) *gorm.DB {
	stmt = stmt.Where("status = ?", taxpayerdomain.TaxpayerStatusActive)
	if f.category != "" {
		stmt = stmt.Where("category = ?", f.category)
	}
	if f.commune != "" {
		stmt = stmt.Where("commune = ?", f.commune)
	}
	if f.neighborhood != "" {
		stmt = stmt.Where("neighborhood = ?", f.neighborhood)
	}
	if f.groupID != nil {
		stmt = stmt.Where("group_id = ?", *f.groupID)
	}
	return stmt
}

// apply layers the activity-start date range on top of the base predicate.
func (f bulkFilters) apply(stmt *gorm.DB) *gorm.DB {
	stmt = f.applyBase(stmt)
	if f.startedFrom != nil {
		stmt = stmt.Where("started_at >= ?", *f.startedFrom)
	}
	if f.startedTo != nil {
		stmt = stmt.Where("started_at <= ?", *f.startedTo)
	}
	return stmt
}

// applyMissingStartedAt selects taxpayers excluded solely because they lack
// an activity-start date while a date filter was requested.
func (f bulkFilters) applyMissingStartedAt(stmt *gorm.DB) *gorm.DB {
	return f.applyBase(stmt).Where("started_at IS NULL")
}
