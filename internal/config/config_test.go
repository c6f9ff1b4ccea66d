package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, FormatHTML, cfg.InflationFormat)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	assert.Equal(t, 0, cfg.FetchRetries)
	assert.Contains(t, cfg.InflationURL, "minfin.com.ua")
	assert.False(t, cfg.MailEnabled())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INFLATION_FORMAT", "xml")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_RETRIES", "2")
	t.Setenv("FETCH_RETRY_DELAY", "250ms")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("REFRESH_SCHEDULE", "@every 30m")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SENDER_EMAIL", "claims@example.org")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, FormatXML, cfg.InflationFormat)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchRetryDelay)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "@every 30m", cfg.RefreshSchedule)
	assert.True(t, cfg.MailEnabled())
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"empty jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"unknown format", map[string]string{"INFLATION_FORMAT": "csv"}},
		{"bad timeout", map[string]string{"FETCH_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"FETCH_TIMEOUT": "0s"}},
		{"bad retries", map[string]string{"FETCH_RETRIES": "many"}},
		{"negative retries", map[string]string{"FETCH_RETRIES": "-1"}},
		{"bad cache ttl", map[string]string{"CACHE_TTL": "1 hour"}},
		{"schedule without cache", map[string]string{"REFRESH_SCHEDULE": "@hourly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestFetchBudget(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected time.Duration
	}{
		{"single attempt", Config{FetchTimeout: 10 * time.Second, FetchRetryDelay: time.Second}, 10 * time.Second},
		{"one retry", Config{FetchTimeout: 10 * time.Second, FetchRetries: 1, FetchRetryDelay: time.Second}, 21 * time.Second},
		{"three retries", Config{FetchTimeout: 2 * time.Second, FetchRetries: 3, FetchRetryDelay: 500 * time.Millisecond}, 11 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.FetchBudget())
		})
	}
}
