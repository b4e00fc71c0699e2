package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint != "http://127.0.0.1:8000/query" {
		t.Errorf("Expected default endpoint to be the local backend, got '%s'", cfg.Endpoint)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("Expected TimeoutSeconds 300, got %d", cfg.TimeoutSeconds)
	}
	if cfg.CopyToClipboard {
		t.Error("Expected CopyToClipboard to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("GetConfigPath() should end with config.toml, got %s", filepath.Base(path))
	}
}

func TestLoadConfigFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
endpoint = "http://rag.internal:9000/query"
timeout_seconds = 15

[markdown]
style = "notty"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://rag.internal:9000/query", cfg.Endpoint)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, "notty", cfg.Markdown.Style)
	assert.Equal(t, DefaultConfig().Title, cfg.Title)
	assert.Equal(t, DefaultConfig().TUITheme, cfg.TUITheme)
}

func TestLoadConfigFrom_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint = [unterminated"), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfigTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Endpoint = "https://example.com/query"
	cfg.CopyToClipboard = true

	require.NoError(t, SaveConfigTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfig_UsesHome(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	require.NoError(t, SaveConfig(DefaultConfig()))

	_, err := os.Stat(filepath.Join(tmpDir, ".ragchat", "config.toml"))
	assert.NoError(t, err)
}

func TestReadDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(first, []byte("RAGCHAT_ENDPOINT=http://a/query\nRAGCHAT_THEME=nord\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("RAGCHAT_ENDPOINT=http://b/query\n"), 0o600))

	vars, err := ReadDotEnv(first, second, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://a/query", vars[EnvEndpoint], "earlier files win")
	assert.Equal(t, "nord", vars[EnvTheme])
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://from-env/query")
	t.Setenv(EnvTimeoutSeconds, "")

	dotenv := map[string]string{
		EnvEndpoint:       "http://from-dotenv/query",
		EnvTimeoutSeconds: "42",
		EnvLogLevel:       "debug",
	}

	cfg, err := ApplyEnv(DefaultConfig(), dotenv)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env/query", cfg.Endpoint, "process env beats dotenv")
	assert.Equal(t, 42, cfg.TimeoutSeconds, "empty env var falls through to dotenv")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultConfig().TUITheme, cfg.TUITheme)
}

func TestApplyEnv_InvalidTimeout(t *testing.T) {
	_, err := ApplyEnv(DefaultConfig(), map[string]string{EnvTimeoutSeconds: "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		timeout  int
		wantErr  bool
	}{
		{"http", "http://127.0.0.1:8000/query", 10, false},
		{"https", "https://rag.example.com/query", 0, false},
		{"no scheme", "127.0.0.1:8000/query", 10, true},
		{"ftp", "ftp://host/query", 10, true},
		{"no host", "http:///query", 10, true},
		{"negative timeout", "http://host/query", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Endpoint = tt.endpoint
			cfg.TimeoutSeconds = tt.timeout

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
