// Package config handles configuration loading for ragchat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/longevai/ragchat/internal/models"
)

// Environment variables that override the config file
const (
	EnvEndpoint       = "RAGCHAT_ENDPOINT"
	EnvTimeoutSeconds = "RAGCHAT_TIMEOUT_SECONDS"
	EnvTheme          = "RAGCHAT_THEME"
	EnvLogLevel       = "RAGCHAT_LOG_LEVEL"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `toml:"style"`             // "dark", "light", "notty", ... or path to JSON theme
	EnableEmoji      bool   `toml:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `toml:"preserve_newlines"` // Preserve original line breaks
	TableWrap        bool   `toml:"table_wrap"`        // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the full URL of the backend's query route.
	Endpoint string `toml:"endpoint"`
	// TimeoutSeconds bounds a single query. 0 disables the timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	Title       string `toml:"title"`
	Welcome     string `toml:"welcome"`
	Placeholder string `toml:"placeholder"`

	CopyToClipboard bool           `toml:"copy_to_clipboard"`
	TUITheme        string         `toml:"tui_theme"`
	LogLevel        string         `toml:"log_level"`
	Markdown        MarkdownConfig `toml:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.EndpointQuery,
		TimeoutSeconds:  300,
		Title:           "AI Chatbot For Cardio Health",
		Welcome:         "Ask me a question about the benefits of exercise!",
		Placeholder:     "What are the benefits of strength training?",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogLevel:        "info",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".ragchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetLogPath returns the path of the debug log written by the chat TUI
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ragchat.log"), nil
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from path. A missing file yields the
// defaults without error.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the default path
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.toml"), cfg)
}

// SaveConfigTo writes the configuration as TOML to path
func SaveConfigTo(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Encode renders cfg as TOML
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadDotEnv reads KEY=VALUE pairs from the given .env files. Missing files
// are skipped.
func ReadDotEnv(paths ...string) (map[string]string, error) {
	vars := map[string]string{}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		fileVars, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		for k, v := range fileVars {
			if _, seen := vars[k]; !seen {
				vars[k] = v
			}
		}
	}
	return vars, nil
}

// ApplyEnv overlays environment overrides on cfg. Process environment wins
// over values from dotenv.
func ApplyEnv(cfg Config, dotenv map[string]string) (Config, error) {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvEndpoint); ok {
		cfg.Endpoint = v
	}
	if v, ok := lookup(EnvTimeoutSeconds); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvTimeoutSeconds, v, err)
		}
		cfg.TimeoutSeconds = n
	}
	if v, ok := lookup(EnvTheme); ok {
		cfg.TUITheme = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// Validate checks that cfg can be used to issue queries
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}
