package migration

import (
	auditdomain "github.com/opencommune/fiscalis/internal/audit/domain"
	"github.com/opencommune/fiscalis/internal/config"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
	"github.com/opencommune/fiscalis/internal/seed"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// golang-migrate is wired for postgres; other dialects fall
			// back to gorm's schema migration.
			if err := conn.AutoMigrate(
				&referencedomain.TaxpayerCategory{},
				&referencedomain.Commune{},
				&referencedomain.Tax{},
				&taxpayerdomain.Taxpayer{},
				&taxpayerdomain.Measure{},
				&noticedomain.Notice{},
				&noticedomain.NoticeLine{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedReferenceData {
			return seed.EnsureReferenceData(conn)
		}
		return nil
	}),
)
