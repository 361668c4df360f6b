package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseMapping(t *testing.T) {
	cfg := Config{
		DBType:            "postgres",
		DBHost:            "db.internal",
		DBPort:            "5433",
		DBName:            "fiscalis",
		DBUser:            "app",
		DBPassword:        "secret",
		DBSSLMode:         "require",
		DBMaxIdleConn:     3,
		DBMaxOpenConn:     12,
		DBConnMaxLifetime: 120,
		DBConnMaxIdleTime: 30,
	}

	dbCfg := cfg.Database()
	assert.Equal(t, "postgres", dbCfg.Type)
	assert.Equal(t, "db.internal", dbCfg.Host)
	assert.Equal(t, "5433", dbCfg.Port)
	assert.Equal(t, "fiscalis", dbCfg.Name)
	assert.Equal(t, "app", dbCfg.User)
	assert.Equal(t, "secret", dbCfg.Password)
	assert.Equal(t, "require", dbCfg.SSLMode)
	assert.Equal(t, 3, dbCfg.MaxIdleConn)
	assert.Equal(t, 12, dbCfg.MaxOpenConn)
	assert.Equal(t, 120, dbCfg.ConnMaxLifetime)
	assert.Equal(t, 30, dbCfg.ConnMaxIdleTime)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.BulkErrorSampleSize)
	assert.True(t, cfg.SeedReferenceData)
}
