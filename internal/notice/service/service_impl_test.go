package service

import (
	"context"
	"testing"
	"time"

	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_PricingCorrectness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "200")
	env.seedCommune(t, "Niamey I", "NY1")
	taxA := env.seedTax(t, "MARKET", "Market tax", "100", true)
	taxB := env.seedTax(t, "SIGNAGE", "Signage tax", "50", true)

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	env.seedMeasure(t, taxpayer.ID, taxA.ID, "3")
	env.seedMeasure(t, taxpayer.ID, taxB.ID, "0")

	notice, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	assert.True(t, notice.TotalAmount.Equal(decimal.NewFromInt(500)), "total = 100*3 + 200, got %s", notice.TotalAmount)
	require.Len(t, notice.Lines, 2)

	assert.Equal(t, "MARKET", notice.Lines[0].TaxCode)
	assert.True(t, notice.Lines[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, notice.Lines[0].BaseAmount.Equal(decimal.NewFromInt(3)))

	assert.Equal(t, referencedomain.TaxCodeSanitation, notice.Lines[1].TaxCode)
	assert.True(t, notice.Lines[1].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, notice.Lines[1].BaseAmount.Equal(decimal.NewFromInt(1)))

	// Tax B is omitted entirely: no zero-amount line.
	for _, line := range notice.Lines {
		assert.NotEqual(t, "SIGNAGE", line.TaxCode)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "200")
	env.seedCommune(t, "Niamey I", "NY1")
	tax := env.seedTax(t, "MARKET", "Market tax", "100", true)

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	env.seedMeasure(t, taxpayer.ID, tax.ID, "2")

	first, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	linesBefore := env.lineCount(t)

	second, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)
	assert.Len(t, second.Lines, len(first.Lines))

	assert.Equal(t, int64(1), env.noticeCount(t))
	assert.Equal(t, linesBefore, env.lineCount(t))
	assert.Equal(t, int64(1), env.auditCount(t, "notice.generated"))
}

func TestCalculate_DifferentYearsProduceDistinctNotices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "200")
	env.seedCommune(t, "Niamey I", "NY1")

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)

	first, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2025)
	require.NoError(t, err)
	second, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(2), env.noticeCount(t))
	assert.Contains(t, first.Number, "-25-")
	assert.Contains(t, second.Number, "-26-")
}

func TestCalculate_AssignsTaxpayerCodeOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "100")
	env.seedCommune(t, "Niamey I", "CNY1")

	first := env.seedTaxpayer(t, "Boutique A", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	second := env.seedTaxpayer(t, "Boutique B", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)

	_, err := env.svc.Calculate(ctx, first.ID.String(), 2026)
	require.NoError(t, err)
	_, err = env.svc.Calculate(ctx, second.ID.String(), 2026)
	require.NoError(t, err)

	var reloadedFirst, reloadedSecond taxpayerdomain.Taxpayer
	require.NoError(t, env.db.First(&reloadedFirst, "id = ?", first.ID).Error)
	require.NoError(t, env.db.First(&reloadedSecond, "id = ?", second.ID).Error)

	// Commune code "CNY1" loses its leading C in the scope prefix.
	require.NotNil(t, reloadedFirst.Code)
	require.NotNil(t, reloadedSecond.Code)
	assert.Equal(t, "COM-CNY1-00001", *reloadedFirst.Code)
	assert.Equal(t, "COM-CNY1-00002", *reloadedSecond.Code)

	// A later year keeps the code assigned at first assessment.
	_, err = env.svc.Calculate(ctx, first.ID.String(), 2027)
	require.NoError(t, err)
	require.NoError(t, env.db.First(&reloadedFirst, "id = ?", first.ID).Error)
	assert.Equal(t, "COM-CNY1-00001", *reloadedFirst.Code)
}

func TestCalculate_NoticeNumberFormat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "100")
	env.seedCommune(t, "Niamey I", "NY1")

	first := env.seedTaxpayer(t, "Boutique A", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	second := env.seedTaxpayer(t, "Boutique B", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)

	noticeA, err := env.svc.Calculate(ctx, first.ID.String(), 2026)
	require.NoError(t, err)
	noticeB, err := env.svc.Calculate(ctx, second.ID.String(), 2026)
	require.NoError(t, err)

	assert.Equal(t, "TNY1-26-00001", noticeA.Number)
	assert.Equal(t, "TNY1-26-00002", noticeB.Number)
}

func TestCalculate_NewNoticeDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "100")
	env.seedCommune(t, "Niamey I", "NY1")
	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)

	notice, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	assert.Equal(t, noticedomain.NoticeStatusUnpaid, notice.Status)
	assert.True(t, notice.AmountPaid.IsZero())
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), notice.PeriodStart)
	assert.Equal(t, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), notice.PeriodEnd)
}

func TestCalculate_UnknownTaxpayer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Calculate(context.Background(), "999999999", 2026)
	assert.ErrorIs(t, err, noticedomain.ErrTaxpayerNotFound)
}

func TestCalculate_PendingTaxpayer(t *testing.T) {
	env := newTestEnv(t)

	env.seedCategory(t, "Commerce", "COM", "100")
	env.seedCommune(t, "Niamey I", "NY1")
	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusPending)

	_, err := env.svc.Calculate(context.Background(), taxpayer.ID.String(), 2026)
	assert.ErrorIs(t, err, noticedomain.ErrTaxpayerPending)
	assert.Equal(t, int64(0), env.noticeCount(t))
}

func TestCalculate_ConfigMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCommune(t, "Niamey I", "NY1")
	noCategory := env.seedTaxpayer(t, "Boutique A", "Ghost", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	_, err := env.svc.Calculate(ctx, noCategory.ID.String(), 2026)
	assert.ErrorIs(t, err, noticedomain.ErrConfigMissing)

	env.seedCategory(t, "Commerce", "COM", "100")
	noCommune := env.seedTaxpayer(t, "Boutique B", "Commerce", "Atlantis", taxpayerdomain.TaxpayerStatusActive)
	_, err = env.svc.Calculate(ctx, noCommune.ID.String(), 2026)
	assert.ErrorIs(t, err, noticedomain.ErrConfigMissing)

	env.seedCategory(t, "Artisanat", "", "100")
	blankCategoryCode := env.seedTaxpayer(t, "Boutique C", "Artisanat", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	_, err = env.svc.Calculate(ctx, blankCategoryCode.ID.String(), 2026)
	assert.ErrorIs(t, err, noticedomain.ErrConfigMissing)

	env.seedCommune(t, "Niamey II", "")
	blankCommuneCode := env.seedTaxpayer(t, "Boutique D", "Commerce", "Niamey II", taxpayerdomain.TaxpayerStatusActive)
	_, err = env.svc.Calculate(ctx, blankCommuneCode.ID.String(), 2026)
	assert.ErrorIs(t, err, noticedomain.ErrConfigMissing)

	assert.Equal(t, int64(0), env.noticeCount(t))
}

func TestCalculate_NoSanitationLineWhenZeroFee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "0")
	env.seedCommune(t, "Niamey I", "NY1")
	tax := env.seedTax(t, "MARKET", "Market tax", "100", true)

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	env.seedMeasure(t, taxpayer.ID, tax.ID, "2")

	notice, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	require.Len(t, notice.Lines, 1)
	assert.Equal(t, "MARKET", notice.Lines[0].TaxCode)
	assert.True(t, notice.TotalAmount.Equal(decimal.NewFromInt(200)))
}

func TestCalculate_InactiveTaxIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "0")
	env.seedCommune(t, "Niamey I", "NY1")
	inactive := env.seedTax(t, "LEGACY", "Legacy tax", "400", false)

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	env.seedMeasure(t, taxpayer.ID, inactive.ID, "5")

	notice, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	assert.Empty(t, notice.Lines)
	assert.True(t, notice.TotalAmount.IsZero())
}

func TestCalculate_SanitationTaxNotPricedByRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCategory(t, "Commerce", "COM", "150")
	env.seedCommune(t, "Niamey I", "NY1")
	// Even with a rate and a measure, the sanitation tax bills the flat fee.
	sanitation := env.seedTax(t, referencedomain.TaxCodeSanitation, "Taxe d'assainissement", "999", true)

	taxpayer := env.seedTaxpayer(t, "Boutique Sahel", "Commerce", "Niamey I", taxpayerdomain.TaxpayerStatusActive)
	env.seedMeasure(t, taxpayer.ID, sanitation.ID, "4")

	notice, err := env.svc.Calculate(ctx, taxpayer.ID.String(), 2026)
	require.NoError(t, err)

	require.Len(t, notice.Lines, 1)
	assert.Equal(t, referencedomain.TaxCodeSanitation, notice.Lines[0].TaxCode)
	assert.Equal(t, "Taxe d'assainissement", notice.Lines[0].TaxLabel)
	assert.True(t, notice.Lines[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.True(t, notice.TotalAmount.Equal(decimal.NewFromInt(150)))
}

func TestNormalizeCommuneCode(t *testing.T) {
	assert.Equal(t, "NY1", normalizeCommuneCode("CNY1"))
	assert.Equal(t, "NY1", normalizeCommuneCode("cny1"))
	assert.Equal(t, "1", normalizeCommuneCode("C1"))
	assert.Equal(t, "X2", normalizeCommuneCode("x2"))
	assert.Equal(t, "", normalizeCommuneCode(""))
	// Only a single leading C is stripped.
	assert.Equal(t, "C3", normalizeCommuneCode("CC3"))
}
