// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/slug"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "APP_URL",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"S3_BUCKET", "S3_PUBLIC_URL",
	"ASSET_BASE_URL", "SLUG_POLICY", "TRUST_PROXY",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8080", cfg.AppURL)
	assert.Equal(t, "agencysite", cfg.DBUser)
	assert.Equal(t, "changeme", cfg.DBPassword)
	assert.Equal(t, "agencysite", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.ValkeyAddr())
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, slug.Freeze, cfg.SlugPolicy)
	assert.False(t, cfg.StorageEnabled())
	assert.True(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_URL", "https://example.com/")
	t.Setenv("SLUG_POLICY", "rename")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, "https://example.com", cfg.AppURL, "trailing slash is trimmed")
	assert.Equal(t, slug.RegenerateOnRename, cfg.SlugPolicy)
	assert.True(t, cfg.StorageEnabled())
}

func TestLoad_InvalidSlugPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLUG_POLICY", "sometimes")

	_, err := Load()
	assert.ErrorContains(t, err, "SLUG_POLICY")
}

func TestLoad_TrustProxy(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TrustProxy, "forwarding headers are ignored by default")

	t.Setenv("TRUST_PROXY", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxy)

	t.Setenv("TRUST_PROXY", "sometimes")
	_, err = Load()
	assert.ErrorContains(t, err, "TRUST_PROXY")
}

func TestLoad_ProductionGuards(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_PASSWORD")

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	_, err = Load()
	assert.ErrorContains(t, err, "APP_URL")

	t.Setenv("APP_URL", "https://agency.example")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.DSN())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7070\nPOSTGRES_DB=fromfile\n"), 0o600))

	// A variable that is already set wins over the file.
	t.Setenv("POSTGRES_DB", "fromenv")
	os.Unsetenv("APP_PORT")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "fromenv", cfg.DBName)
}
