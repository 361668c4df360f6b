package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	auditrepository "github.com/opencommune/fiscalis/internal/audit/repository"
	auditservice "github.com/opencommune/fiscalis/internal/audit/service"
	"github.com/opencommune/fiscalis/internal/config"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	referencerepository "github.com/opencommune/fiscalis/internal/reference/repository"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      *Service
	auditSvc auditdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&referencedomain.TaxpayerCategory{},
		&referencedomain.Commune{},
		&referencedomain.Tax{},
		&taxpayerdomain.Taxpayer{},
		&taxpayerdomain.Measure{},
		&noticedomain.Notice{},
		&noticedomain.NoticeLine{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	auditSvc := auditservice.NewService(auditservice.Params{
		Log:   log,
		GenID: node,
		Repo:  auditrepository.NewRepository(db),
	})

	svc := NewService(ServiceParam{
		Cfg:      config.Config{BulkErrorSampleSize: 5},
		DB:       db,
		Log:      log,
		GenID:    node,
		RefRepo:  referencerepository.NewRepository(db),
		AuditSvc: auditSvc,
	}).(*Service)

	return &testEnv{db: db, node: node, svc: svc, auditSvc: auditSvc}
}

func (e *testEnv) seedCategory(t *testing.T, label, code, sanitation string) *referencedomain.TaxpayerCategory {
	t.Helper()
	amount, err := decimal.NewFromString(sanitation)
	require.NoError(t, err)

	now := time.Now().UTC()
	category := &referencedomain.TaxpayerCategory{
		ID:               e.node.Generate(),
		Label:            label,
		Code:             code,
		SanitationAmount: amount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, e.db.Create(category).Error)
	return category
}

func (e *testEnv) seedCommune(t *testing.T, name, code string) *referencedomain.Commune {
	t.Helper()
	now := time.Now().UTC()
	commune := &referencedomain.Commune{
		ID:        e.node.Generate(),
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.db.Create(commune).Error)
	return commune
}

func (e *testEnv) seedTax(t *testing.T, code, label, rate string, active bool) *referencedomain.Tax {
	t.Helper()
	parsed, err := decimal.NewFromString(rate)
	require.NoError(t, err)

	now := time.Now().UTC()
	tax := &referencedomain.Tax{
		ID:        e.node.Generate(),
		Code:      code,
		Label:     label,
		Rate:      parsed,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.db.Create(tax).Error)
	// GORM drops a false Active on insert because the column declares
	// default:true, so write it explicitly.
	require.NoError(t, e.db.Model(tax).UpdateColumn("active", active).Error)
	return tax
}

func (e *testEnv) seedTaxpayer(t *testing.T, name, category, commune string, status taxpayerdomain.TaxpayerStatus) *taxpayerdomain.Taxpayer {
	t.Helper()
	now := time.Now().UTC()
	taxpayer := &taxpayerdomain.Taxpayer{
		ID:        e.node.Generate(),
		Name:      name,
		Status:    status,
		Category:  category,
		Commune:   commune,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.db.Create(taxpayer).Error)
	return taxpayer
}

func (e *testEnv) seedMeasure(t *testing.T, taxpayerID, taxID snowflake.ID, quantity string) {
	t.Helper()
	parsed, err := decimal.NewFromString(quantity)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, e.db.Create(&taxpayerdomain.Measure{
		ID:         e.node.Generate(),
		TaxpayerID: taxpayerID,
		TaxID:      taxID,
		Quantity:   parsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)
}

func (e *testEnv) noticeCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&noticedomain.Notice{}).Count(&count).Error)
	return count
}

func (e *testEnv) lineCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&noticedomain.NoticeLine{}).Count(&count).Error)
	return count
}

func (e *testEnv) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&auditdomain.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}
