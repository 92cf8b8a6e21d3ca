package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Render.RasterScale)
	assert.Equal(t, 1.25, cfg.Render.RasterPaddingCM)
	assert.Equal(t, 60.0, cfg.Render.VectorMarginPt)
	assert.Equal(t, 1500, cfg.Animation.DurationMS)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8081"
render:
  backend: raster
  raster_scale: 3
redis:
  address: "localhost:6379"
  ttl_minutes: 5
minio:
  enabled: true
  endpoint: "localhost:9000"
  bucketName: "pdfs"
logger:
  level: debug
  format: pretty
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "raster", cfg.Render.Backend)
	assert.Equal(t, 3.0, cfg.Render.Geometry().RasterScale)
	assert.Equal(t, 60.0, cfg.Render.VectorMarginPt, "unset keys keep defaults")
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 5, cfg.Redis.TTLMinutes)
	assert.True(t, cfg.MinIO.Enabled)
	assert.Equal(t, "pdfs", cfg.MinIO.BucketName)
	assert.Equal(t, "pretty", cfg.Logger.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JOBS_DATABASE_URL", "postgres://u:p@db:5432/jobs")
	t.Setenv("CHROME_PATH", "/usr/bin/chromium")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/jobs", cfg.Database.URL)
	assert.Equal(t, "/usr/bin/chromium", cfg.Chrome.ExecPath)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"low raster scale":  "render:\n  raster_scale: 1.5\n",
		"unknown backend":   "render:\n  backend: svg\n",
		"zero animation":    "animation:\n  duration_ms: 0\n",
		"negative frame":    "animation:\n  frame_ms: -1\n",
		"minio no endpoint": "minio:\n  enabled: true\n  endpoint: \"\"\n",
		"bad yaml":          "render: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "1.5s", cfg.Animation.Duration().String())
	assert.Equal(t, "16ms", cfg.Animation.Frame().String())
	assert.Equal(t, "1h0m0s", cfg.Redis.TTL().String())
	assert.Equal(t, "1s", cfg.Render.Backoff().String())
}
