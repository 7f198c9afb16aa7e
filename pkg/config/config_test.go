package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SinJWTSecret_Falla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 50, cfg.HTTP.BodyLimitMB)
	assert.Equal(t, 120*time.Minute, cfg.Ingest.ChunkTTL)
	assert.Equal(t, "latin1", cfg.Ingest.SourceCharset)
	assert.Equal(t, 0, cfg.Ingest.MaxLines)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
}

func TestLoad_EnteroInvalidoUsaDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "no-es-numero")
	t.Setenv("INGEST_MAX_LINES", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5000, cfg.Ingest.MaxLines)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "soat", Password: "p@ss:word", DBName: "auditoria", SSLMode: "disable"}
	assert.Equal(t, "postgres://soat:p%40ss%3Aword@db:5432/auditoria?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://u:p@h:6543/x?sslmode=require"
	assert.Equal(t, c.DatabaseURL, c.ConnectionString())
}
