package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the inklude config
// directory inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "inklude")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `server:
  host: 127.0.0.1
  http_port: 9191
  shutdown_timeout: 3s
analysis:
  max_text_length: 1000
  default_tone: direct
  extra_names: [Thandiwe, Oluwaseun]
neopronouns:
  seed_file: /var/lib/inklude/community.yaml
  watch: true
admin:
  api_key: s3cret
observability:
  enable_telemetry: true
  protocol: http
  endpoint: collector:4318
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9191", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 1000, cfg.Analysis.MaxTextLength)
	assert.Equal(t, 50, cfg.Analysis.MaxBatchSize)
	assert.Equal(t, "direct", cfg.Analysis.DefaultTone)
	assert.Equal(t, []string{"Thandiwe", "Oluwaseun"}, cfg.Analysis.ExtraNames)
	assert.True(t, cfg.NeoPronouns.Watch)
	assert.Equal(t, "s3cret", cfg.Admin.APIKey.Value())
	assert.Equal(t, "[REDACTED]", cfg.Admin.APIKey.String())
	assert.True(t, cfg.Observability.EnableTelemetry)
	assert.Equal(t, "http", cfg.Observability.Protocol)
	assert.Equal(t, "collector:4318", cfg.Observability.Endpoint)
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	dir := setupTestHome(t)

	cfg, err := LoadWithFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := setupTestHome(t)
	writeConfig(t, dir, "server:\n  http_port: 7000\n", 0600)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "server:\n  http_port: 9191\nanalysis:\n  default_tone: direct\n", 0600)

	t.Setenv("INKLUDE_SERVER_HTTP_PORT", "9292")
	t.Setenv("INKLUDE_ANALYSIS_DEFAULT_TONE", "research_backed")
	t.Setenv("INKLUDE_ADMIN_API_KEY", "from-env")
	t.Setenv("INKLUDE_SERVER_SHUTDOWN_TIMEOUT", "45s")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9292, cfg.Server.Port)
	assert.Equal(t, "research_backed", cfg.Analysis.DefaultTone)
	assert.Equal(t, "from-env", cfg.Admin.APIKey.Value())
	assert.Equal(t, 45*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	dir := setupTestHome(t)

	t.Run("bad tone", func(t *testing.T) {
		path := writeConfig(t, dir, "analysis:\n  default_tone: snarky\n", 0600)
		_, err := LoadWithFile(path)
		assert.ErrorContains(t, err, "unknown default tone")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, dir, "server: [unclosed\n", 0600)
		_, err := LoadWithFile(path)
		assert.Error(t, err)
	})
}

func TestLoadWithFile_RejectsInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "server:\n  http_port: 9191\n", 0644)

	_, err := LoadWithFile(path)
	assert.ErrorContains(t, err, "insecure config file permissions")
}

func TestLoadWithFile_RejectsLargeFile(t *testing.T) {
	dir := setupTestHome(t)
	content := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, dir, content, 0600)

	_, err := LoadWithFile(path)
	assert.ErrorContains(t, err, "too large")
}

func TestValidateConfigPath(t *testing.T) {
	dir := setupTestHome(t)

	allowed := []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "sub", "config.yaml"),
		"/etc/inklude/config.yaml",
	}
	for _, p := range allowed {
		assert.NoError(t, validateConfigPath(p), p)
	}

	rejected := []string{
		"/etc/inklude../passwd",
		"/etc/inklude",
		filepath.Join(dir, "..", "..", "config.yaml"),
		filepath.Join(t.TempDir(), "config.yaml"),
		"/tmp/config.yaml",
	}
	for _, p := range rejected {
		assert.Error(t, validateConfigPath(p), p)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(filepath.Join(home, ".config", "inklude"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.http_port", envKey("INKLUDE_SERVER_HTTP_PORT"))
	assert.Equal(t, "neopronouns.seed_file", envKey("INKLUDE_NEOPRONOUNS_SEED_FILE"))
	assert.Equal(t, "debug", envKey("INKLUDE_DEBUG"))
}
