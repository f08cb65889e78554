package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macuschedule/internal/config"
	"macuschedule/internal/shared/testutil"
)

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2025-09-05", config.Default(), logger)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	notDir := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0644))

	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantStatus string
		wantExport string
	}{
		{"streaming only", nil, "ready", "ready"},
		{"writable output dir", func(c *config.Config) { c.Export.OutputDir = dir }, "ready", "ready"},
		{"missing output dir", func(c *config.Config) { c.Export.OutputDir = filepath.Join(dir, "missing") }, "not_ready", "not_ready"},
		{"output path is a file", func(c *config.Config) { c.Export.OutputDir = notDir }, "not_ready", "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			hs := NewHealthService("1.0.0", "", cfg, nil)

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantExport, status.Services["export"].Status)
			assert.Equal(t, "ready", status.Services["upload"].Status)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "readiness check must clean up")
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.0.0", "2025-09-05T10:00:00Z", nil, nil)

	v := hs.Version()

	assert.Equal(t, config.AppName, v["name"])
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2025-09-05T10:00:00Z", v["build_time"])

	assert.NotContains(t, NewHealthService("1.0.0", "", nil, nil).Version(), "build_time")
}
