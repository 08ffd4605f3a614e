package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("AUTH_RATE_LIMIT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5002", cfg.Port)
	assert.Equal(t, "fortuna-ledger", cfg.JWTIssuer)
	assert.Equal(t, "fortuna-ledger-api", cfg.JWTAudience)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing database", env: map[string]string{"DATABASE_URL": "", "JWT_SECRET": testSecret}, wantErr: "DATABASE_URL"},
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": ""}, wantErr: "JWT_SECRET"},
		{name: "short secret", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "short"}, wantErr: "JWT_SECRET"},
		{name: "bad ttl", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": testSecret, "TOKEN_TTL": "soon"}, wantErr: "TOKEN_TTL"},
		{name: "bad rate limit", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": testSecret, "AUTH_RATE_LIMIT": "lots"}, wantErr: "AUTH_RATE_LIMIT"},
		{name: "zero rate limit", env: map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": testSecret, "AUTH_RATE_LIMIT": "0"}, wantErr: "AUTH_RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TOKEN_TTL", "")
			t.Setenv("AUTH_RATE_LIMIT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should name %s", err, tt.wantErr)
		})
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEDGER_API_URL", "")
	t.Setenv("LEDGER_TOKEN_FILE", "")
	t.Setenv("LEDGER_REQUEST_TIMEOUT", "")
	t.Setenv("LEDGER_LOG_LEVEL", "")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:5002", cfg.APIURL)
	assert.Equal(t, filepath.Join(home, ".fortuna-ledger", "token"), cfg.TokenFile)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
}

func TestLoadClient_Invalid(t *testing.T) {
	t.Setenv("LEDGER_TOKEN_FILE", "/tmp/token")

	t.Setenv("LEDGER_REQUEST_TIMEOUT", "-1s")
	_, err := LoadClient()
	assert.Error(t, err)

	t.Setenv("LEDGER_REQUEST_TIMEOUT", "")
	t.Setenv("LEDGER_LOG_LEVEL", "chatty")
	_, err = LoadClient()
	assert.Error(t, err)
}
