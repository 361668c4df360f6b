package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	cfg := Config{
		Type:     "postgres",
		Host:     "db.internal",
		Port:     "5432",
		Name:     "fiscalis",
		User:     "fiscalis",
		Password: "secret",
		SSLMode:  "disable",
	}

	dialector, err := Dialect(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialector.Name())

	cfg.Type = "mysql"
	dialector, err = Dialect(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql", dialector.Name())

	cfg.Type = "sqlite"
	dialector, err = Dialect(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", dialector.Name())

	cfg.Type = "oracle"
	_, err = Dialect(cfg)
	assert.Error(t, err)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Type:     "postgres",
		Host:     "db.internal",
		Port:     "5432",
		Name:     "fiscalis",
		User:     "app",
		Password: "secret",
		SSLMode:  "require",
	}

	dsn := cfg.postgresDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=fiscalis")
	assert.Contains(t, dsn, "sslmode=require")

	dsn = cfg.mysqlDSN()
	assert.Contains(t, dsn, "app:secret@tcp(db.internal:5432)/fiscalis")
}
