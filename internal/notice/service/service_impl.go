package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	"github.com/opencommune/fiscalis/internal/config"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	"github.com/opencommune/fiscalis/internal/sequence"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	RefRepo  referencedomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	refrepo  referencedomain.Repository
	auditSvc auditdomain.Service

	// scopeLocks serializes sequence allocation per scope prefix so two
	// concurrent calculations cannot read the same highest identifier.
	scopeLocks *sequence.KeyedLock

	errorSampleSize int
}

func NewService(p ServiceParam) noticedomain.Service {
	sampleSize := p.Cfg.BulkErrorSampleSize
	if sampleSize <= 0 {
		sampleSize = 5
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notice.service"),
		genID: p.GenID,

		refrepo:  p.RefRepo,
		auditSvc: p.AuditSvc,

		scopeLocks:      sequence.NewKeyedLock(),
		errorSampleSize: sampleSize,
	}
}

func (s *Service) Calculate(ctx context.Context, taxpayerID string, year int) (*noticedomain.Notice, error) {
	if year <= 0 {
		return nil, noticedomain.ErrInvalidYear
	}

	id, err := snowflake.ParseString(strings.TrimSpace(taxpayerID))
	if err != nil {
		return nil, noticedomain.ErrTaxpayerNotFound
	}

	taxpayer, err := s.loadTaxpayer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if taxpayer == nil {
		return nil, noticedomain.ErrTaxpayerNotFound
	}
	if taxpayer.Status == taxpayerdomain.TaxpayerStatusPending {
		return nil, noticedomain.ErrTaxpayerPending
	}

	category, err := s.refrepo.CategoryByLabel(ctx, taxpayer.Category)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: taxpayer category %q", noticedomain.ErrConfigMissing, taxpayer.Category)
	}

	commune, err := s.refrepo.CommuneByName(ctx, taxpayer.Commune)
	if err != nil {
		return nil, err
	}
	if commune == nil {
		return nil, fmt.Errorf("%w: commune %q", noticedomain.ErrConfigMissing, taxpayer.Commune)
	}

	if strings.TrimSpace(category.Code) == "" {
		return nil, fmt.Errorf("%w: category %q has no code", noticedomain.ErrConfigMissing, category.Label)
	}
	if strings.TrimSpace(commune.Code) == "" {
		return nil, fmt.Errorf("%w: commune %q has no code", noticedomain.ErrConfigMissing, commune.Name)
	}

	// Idempotency: an existing notice for the pair is returned unchanged.
	existing, err := s.findNoticeForYear(ctx, s.db, taxpayer.ID, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.attachLines(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	taxes, err := s.refrepo.ActiveTaxes(ctx)
	if err != nil {
		return nil, err
	}
	measures, err := s.loadMeasures(ctx, taxpayer.ID)
	if err != nil {
		return nil, err
	}

	lines, total := priceLines(taxes, measures, category)

	categoryCode := strings.ToUpper(strings.TrimSpace(category.Code))
	communeCode := normalizeCommuneCode(commune.Code)
	codePrefix := fmt.Sprintf("%s-C%s-", categoryCode, communeCode)
	numberPrefix := fmt.Sprintf("T%s-%02d-", communeCode, year%100)

	unlockCode := s.scopeLocks.Lock(codePrefix)
	defer unlockCode()
	unlockNumber := s.scopeLocks.Lock(numberPrefix)
	defer unlockNumber()

	var notice *noticedomain.Notice
	var createdNew bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check inside the transaction: a concurrent request may have
		// created the notice since the lookup above.
		current, err := s.findNoticeForYear(ctx, tx, taxpayer.ID, year)
		if err != nil {
			return err
		}
		if current != nil {
			notice = current
			return nil
		}

		if taxpayer.Code == nil || strings.TrimSpace(*taxpayer.Code) == "" {
			highest, err := s.highestTaxpayerCode(ctx, tx, codePrefix)
			if err != nil {
				return err
			}
			code := codePrefix + sequence.Next(highest)
			if err := tx.WithContext(ctx).Exec(
				`UPDATE taxpayers SET code = ?, updated_at = ? WHERE id = ?`,
				code,
				time.Now().UTC(),
				taxpayer.ID,
			).Error; err != nil {
				return err
			}
			taxpayer.Code = &code
		}

		highest, err := s.highestNoticeNumber(ctx, tx, numberPrefix)
		if err != nil {
			return err
		}
		number := numberPrefix + sequence.Next(highest)

		now := time.Now().UTC()
		created := noticedomain.Notice{
			ID:          s.genID.Generate(),
			TaxpayerID:  taxpayer.ID,
			Number:      number,
			Year:        year,
			PeriodStart: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
			TotalAmount: total,
			AmountPaid:  decimal.Zero,
			Status:      noticedomain.NoticeStatusUnpaid,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&created).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].ID = s.genID.Generate()
			lines[i].NoticeID = created.ID
			lines[i].Position = i
			lines[i].CreatedAt = now
		}
		if len(lines) > 0 {
			if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
				return err
			}
		}

		created.Lines = lines
		notice = &created
		createdNew = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notice != nil && notice.Lines == nil {
		if err := s.attachLines(ctx, notice); err != nil {
			return nil, err
		}
	}

	if createdNew {
		noticesGenerated.Inc()
		s.emitAudit(ctx, "notice.generated", notice, map[string]any{
			"taxpayer_id":   taxpayer.ID.String(),
			"taxpayer_name": taxpayer.Name,
		})
	}
	return notice, nil
}

// priceLines builds notice lines for every active tax with a positive
// measured quantity, then appends the flat sanitation line whenever the
// category carries a positive sanitation amount.
func priceLines(taxes []referencedomain.Tax, measures map[snowflake.ID]decimal.Decimal, category *referencedomain.TaxpayerCategory) ([]noticedomain.NoticeLine, decimal.Decimal) {
	lines := make([]noticedomain.NoticeLine, 0, len(taxes)+1)
	total := decimal.Zero

	for _, tax := range taxes {
		if tax.IsSanitation() {
			continue
		}
		quantity, ok := measures[tax.ID]
		if !ok || !quantity.IsPositive() {
			continue
		}
		amount := tax.Rate.Mul(quantity)
		lines = append(lines, noticedomain.NoticeLine{
			TaxCode:    tax.Code,
			TaxLabel:   tax.Label,
			TaxRate:    tax.Rate,
			BaseAmount: quantity,
			Amount:     amount,
		})
		total = total.Add(amount)
	}

	if category.SanitationAmount.IsPositive() {
		label := "Sanitation tax"
		for _, tax := range taxes {
			if tax.IsSanitation() {
				label = tax.Label
				break
			}
		}
		lines = append(lines, noticedomain.NoticeLine{
			TaxCode:    referencedomain.TaxCodeSanitation,
			TaxLabel:   label,
			TaxRate:    category.SanitationAmount,
			BaseAmount: decimal.NewFromInt(1),
			Amount:     category.SanitationAmount,
		})
		total = total.Add(category.SanitationAmount)
	}

	return lines, total
}

// normalizeCommuneCode strips one leading 'C' and upper-cases the remainder.
func normalizeCommuneCode(raw string) string {
	code := strings.TrimSpace(raw)
	if code != "" && (code[0] == 'C' || code[0] == 'c') {
		code = code[1:]
	}
	return strings.ToUpper(code)
}

func (s *Service) loadTaxpayer(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taxpayerdomain.Taxpayer, error) {
	var taxpayer taxpayerdomain.Taxpayer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, status, category, commune, neighborhood, group_id, code, started_at, created_at, updated_at
		 FROM taxpayers
		 WHERE id = ?`,
		id,
	).Scan(&taxpayer).Error
	if err != nil {
		return nil, err
	}
	if taxpayer.ID == 0 {
		return nil, nil
	}
	return &taxpayer, nil
}

func (s *Service) loadMeasures(ctx context.Context, taxpayerID snowflake.ID) (map[snowflake.ID]decimal.Decimal, error) {
	var measures []taxpayerdomain.Measure
	err := s.db.WithContext(ctx).
		Model(&taxpayerdomain.Measure{}).
		Where("taxpayer_id = ?", taxpayerID).
		Find(&measures).Error
	if err != nil {
		return nil, err
	}

	byTax := make(map[snowflake.ID]decimal.Decimal, len(measures))
	for _, measure := range measures {
		byTax[measure.TaxID] = measure.Quantity
	}
	return byTax, nil
}

func (s *Service) findNoticeForYear(ctx context.Context, db *gorm.DB, taxpayerID snowflake.ID, year int) (*noticedomain.Notice, error) {
	var notice noticedomain.Notice
	err := db.WithContext(ctx).Raw(
		`SELECT id, taxpayer_id, number, year, period_start, period_end,
		        total_amount, amount_paid, status, created_at, updated_at
		 FROM notices
		 WHERE taxpayer_id = ? AND year = ?
		 LIMIT 1`,
		taxpayerID,
		year,
	).Scan(&notice).Error
	if err != nil {
		return nil, err
	}
	if notice.ID == 0 {
		return nil, nil
	}
	return &notice, nil
}

func (s *Service) attachLines(ctx context.Context, notice *noticedomain.Notice) error {
	var lines []noticedomain.NoticeLine
	err := s.db.WithContext(ctx).
		Model(&noticedomain.NoticeLine{}).
		Where("notice_id = ?", notice.ID).
		Order("position ASC").
		Find(&lines).Error
	if err != nil {
		return err
	}
	notice.Lines = lines
	return nil
}

func (s *Service) highestTaxpayerCode(ctx context.Context, tx *gorm.DB, prefix string) (string, error) {
	var code string
	err := tx.WithContext(ctx).Raw(
		`SELECT code FROM taxpayers
		 WHERE code LIKE ?
		 ORDER BY code DESC
		 LIMIT 1`,
		prefix+"%",
	).Scan(&code).Error
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *Service) highestNoticeNumber(ctx context.Context, tx *gorm.DB, prefix string) (string, error) {
	var number string
	err := tx.WithContext(ctx).Raw(
		`SELECT number FROM notices
		 WHERE number LIKE ?
		 ORDER BY number DESC
		 LIMIT 1`,
		prefix+"%",
	).Scan(&number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, notice *noticedomain.Notice, extra map[string]any) {
	if s.auditSvc == nil || notice == nil {
		return
	}
	metadata := map[string]any{
		"number":       notice.Number,
		"year":         notice.Year,
		"total_amount": notice.TotalAmount.String(),
	}
	for key, value := range extra {
		if key == "" {
			continue
		}
		metadata[key] = value
	}

	targetID := notice.ID.String()
	_ = s.auditSvc.AuditLog(ctx, action, "notice", &targetID, metadata)
}
