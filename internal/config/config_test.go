package config

import (
	"testing"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("ACTUALS_FORMAT", "")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("REPORT_HEADER_COLOR", "")
	t.Setenv("ROLLOVER_INTERVAL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.RolloverInterval)

	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, domain.SnapshotShapeFlat, cfg.ActualsFormat)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, domain.DefaultReportTheme(), cfg.Theme)
}

func TestLoad_ThemeOverride(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageFile)
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("REPORT_HEADER_COLOR", "#112233")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, domain.RGB{R: 0x11, G: 0x22, B: 0x33}, cfg.Theme.HeaderColor)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "STORAGE_BACKEND", "dropbox"},
		{"unknown format", "ACTUALS_FORMAT", "csv"},
		{"non-numeric rate", "RATE_LIMIT_PER_MINUTE", "many"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
		{"bad color", "REPORT_ROW_COLOR", "grey"},
		{"negative rollover", "ROLLOVER_INTERVAL_MINUTES", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
