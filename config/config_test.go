package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"flight-price-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	// keep godotenv from picking up a developer's .env
	chdir(t, t.TempDir())
	t.Setenv("API_TOKEN", "api-token")
	t.Setenv("BOT_TOKEN", "bot-token")
	t.Setenv("CHAT_ID", "42")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rub", cfg.Currency)
	assert.Equal(t, "₽", cfg.CurrencySymbol)
	assert.Equal(t, 20*time.Minute, cfg.CheckInterval)
	assert.Equal(t, "21:00", cfg.ReportAt)
	assert.Equal(t, "price_history.csv", cfg.HistoryFile)
	assert.False(t, cfg.RestoreLastPrices)
	assert.Equal(t, DefaultRoutes(), cfg.Routes)
}

func TestLoadMissingCredentialFailsFast(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_TOKEN", "api-token")
	t.Setenv("CHAT_ID", "42")
	os.Unsetenv("BOT_TOKEN")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("API_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHAT_ID", "")
	os.Unsetenv("API_TOKEN")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("CHAT_ID")

	env := "API_TOKEN=a\nBOT_TOKEN=b\nCHAT_ID=c\nCHECK_INTERVAL=5m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("CHECK_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.APIToken)
	assert.Equal(t, "c", cfg.ChatID)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
}

func TestLoadRejectsBadReportTime(t *testing.T) {
	setCredentials(t)
	t.Setenv("REPORT_AT", "9pm")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "REPORT_AT")
}

func TestLoadRejectsSubSecondInterval(t *testing.T) {
	setCredentials(t)
	t.Setenv("CHECK_INTERVAL", "500ms")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "CHECK_INTERVAL")
}

func TestLoadAcceptsOneSecondInterval(t *testing.T) {
	setCredentials(t)
	t.Setenv("CHECK_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.CheckInterval)
}

func TestLoadRoutesFile(t *testing.T) {
	setCredentials(t)
	path := filepath.Join(t.TempDir(), "routes.yaml")
	yml := "routes:\n  - origin: svo\n    destination: aer\n    date: 2025-10-01\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("ROUTES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []models.Route{{Origin: "SVO", Destination: "AER", Date: "2025-10-01"}}, cfg.Routes)
}

func TestReportClock(t *testing.T) {
	cfg := &Config{ReportAt: "07:30"}
	h, m, err := cfg.ReportClock()
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 30, m)
}

func TestValidateRoutes(t *testing.T) {
	tests := []struct {
		name    string
		routes  []models.Route
		wantErr string
	}{
		{"ok", DefaultRoutes(), ""},
		{"empty", nil, "no routes"},
		{"bad origin", []models.Route{{Origin: "MO", Destination: "LED", Date: "2025-09-10"}}, "origin"},
		{"same airports", []models.Route{{Origin: "LED", Destination: "LED", Date: "2025-09-10"}}, "both"},
		{"bad date", []models.Route{{Origin: "MOW", Destination: "LED", Date: "10.09.2025"}}, "YYYY-MM-DD"},
		{"duplicate", []models.Route{
			{Origin: "MOW", Destination: "LED", Date: "2025-09-10"},
			{Origin: "MOW", Destination: "LED", Date: "2025-09-10"},
		}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoutes(tt.routes)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
