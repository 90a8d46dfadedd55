package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Planner", cfg.App.Name)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, filepath.Join("data", "schedules.json"), cfg.Storage.SchedulesPath())
	assert.Equal(t, filepath.Join("data", "templates.json"), cfg.Storage.TemplatesPath())
	assert.Empty(t, cfg.Storage.BackupCron)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, time.Minute, cfg.Security.RateLimitWindow)
	assert.True(t, cfg.App.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORT", "8088")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("BACKUP_CRON", "0 3 * * *")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("APP_ENVIRONMENT", "production")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8088", cfg.Server.Address())
	assert.Equal(t, filepath.Join(dir, "schedules.json"), cfg.Storage.SchedulesPath())
	assert.Equal(t, "0 3 * * *", cfg.Storage.BackupCron)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.Security.RateLimitWindow)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}, want: "server port"},
		{name: "bad cron", env: map[string]string{"BACKUP_CRON": "every night"}, want: "backup cron"},
		{name: "shared file", env: map[string]string{"TEMPLATES_FILE": "schedules.json"}, want: "different files"},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}, want: "logger format"},
		{name: "zero rate limit", env: map[string]string{"RATE_LIMIT_REQUESTS": "0"}, want: "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
