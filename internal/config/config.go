// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for partner.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/util"
)

// DefaultEndpointURL is the answer-generation webhook the client talks to.
const DefaultEndpointURL = "https://salesgenius.ainavi.co.uk/n8n/webhook/mockup-chatbot"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete partner configuration.
type Config struct {
	Version string `toml:"version" yaml:"version"`

	Endpoint  EndpointConfig  `toml:"endpoint" yaml:"endpoint"`
	Stream    StreamConfig    `toml:"stream" yaml:"stream"`
	Clipboard ClipboardConfig `toml:"clipboard" yaml:"clipboard"`
	Auth      AuthConfig      `toml:"auth" yaml:"auth"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	UI        UIConfig        `toml:"ui" yaml:"ui"`
}

// EndpointConfig describes the remote answer endpoint.
type EndpointConfig struct {
	// URL receives one POST per user turn.
	URL string `toml:"url" yaml:"url"`
	// TimeoutSecs bounds a single request, including reading the body.
	TimeoutSecs int `toml:"timeout_secs" yaml:"timeout_secs"`
	// UserAgent is sent on every request.
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
}

// StreamConfig controls the simulated typing effect.
type StreamConfig struct {
	// MinDelayMs and MaxDelayMs bound the random pause between words.
	MinDelayMs int `toml:"min_delay_ms" yaml:"min_delay_ms"`
	MaxDelayMs int `toml:"max_delay_ms" yaml:"max_delay_ms"`
}

// ClipboardConfig controls the copy action.
type ClipboardConfig struct {
	// CopiedWindowMs is how long a message shows as "Copied!".
	CopiedWindowMs int `toml:"copied_window_ms" yaml:"copied_window_ms"`
}

// AuthConfig configures the local identity provider.
type AuthConfig struct {
	// DBPath is the SQLite file holding accounts (empty = ~/.partner/users.db).
	DBPath string `toml:"db_path" yaml:"db_path"`
	// SignInPerMinute throttles sign-in attempts.
	SignInPerMinute int `toml:"sign_in_per_minute" yaml:"sign_in_per_minute"`
	// RememberSession restores the last signed-in user on startup.
	RememberSession bool `toml:"remember_session" yaml:"remember_session"`
}

// LogConfig configures the structured log file.
type LogConfig struct {
	// Path is the log file (empty = ~/.partner/partner.log).
	Path string `toml:"path" yaml:"path"`
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" yaml:"theme"`
	// AssistantName is shown in the header and thinking indicator.
	AssistantName string `toml:"assistant_name" yaml:"assistant_name"`
	// MaxInputHeight caps the auto-growing input, in lines.
	MaxInputHeight int `toml:"max_input_height" yaml:"max_input_height"`
}

// Timeout returns the request timeout as a duration.
func (e EndpointConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// Delays returns the typing-effect delay bounds.
func (s StreamConfig) Delays() (time.Duration, time.Duration) {
	return time.Duration(s.MinDelayMs) * time.Millisecond, time.Duration(s.MaxDelayMs) * time.Millisecond
}

// Window returns the copied-state window.
func (c ClipboardConfig) Window() time.Duration {
	return time.Duration(c.CopiedWindowMs) * time.Millisecond
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Endpoint: EndpointConfig{
			URL:         DefaultEndpointURL,
			TimeoutSecs: 60,
			UserAgent:   "partner-tui/1.0",
		},

		Stream: StreamConfig{
			MinDelayMs: 30,
			MaxDelayMs: 70,
		},

		Clipboard: ClipboardConfig{
			CopiedWindowMs: 2000,
		},

		Auth: AuthConfig{
			SignInPerMinute: 10,
			RememberSession: true,
		},

		Log: LogConfig{
			Level: "info",
		},

		UI: UIConfig{
			Theme:          "auto",
			AssistantName:  "Bravura AI Partner",
			MaxInputHeight: 6,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the partner configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".partner"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ResolvePaths fills empty file paths with locations under ConfigDir.
func (c *Config) ResolvePaths() error {
	if c.Auth.DBPath != "" && c.Log.Path != "" {
		return nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if c.Auth.DBPath == "" {
		c.Auth.DBPath = filepath.Join(dir, "users.db")
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(dir, "partner.log")
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file(s).
// Tries TOML first, then YAML, and falls back to defaults. Environment
// overrides are applied last. The returned path is the file that was read,
// or empty when only defaults were used.
func Load() (*Config, string, error) {
	candidates := make([]string, 0, 2)
	if p, err := ConfigPathTOML(); err == nil {
		candidates = append(candidates, p)
	}
	if p, err := ConfigPathYAML(); err == nil {
		candidates = append(candidates, p)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, "", nil
}

// LoadFromPath loads configuration from a specific file with full
// validation. Files ending in .yaml or .yml are decoded as YAML, anything
// else as TOML.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(cfg, data)
	default:
		err = decodeTOML(cfg, data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeTOML(cfg *Config, data []byte) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to decode TOML: %w", err)
	}
	return nil
}

func decodeYAML(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode YAML: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
// Booleans are left alone: a file that omits remember_session disables it.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Endpoint.URL == "" {
		cfg.Endpoint.URL = defaults.Endpoint.URL
	}
	if cfg.Endpoint.TimeoutSecs == 0 {
		cfg.Endpoint.TimeoutSecs = defaults.Endpoint.TimeoutSecs
	}
	if cfg.Endpoint.UserAgent == "" {
		cfg.Endpoint.UserAgent = defaults.Endpoint.UserAgent
	}

	if cfg.Stream.MinDelayMs == 0 && cfg.Stream.MaxDelayMs == 0 {
		cfg.Stream = defaults.Stream
	}

	if cfg.Clipboard.CopiedWindowMs == 0 {
		cfg.Clipboard.CopiedWindowMs = defaults.Clipboard.CopiedWindowMs
	}

	if cfg.Auth.SignInPerMinute == 0 {
		cfg.Auth.SignInPerMinute = defaults.Auth.SignInPerMinute
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.AssistantName == "" {
		cfg.UI.AssistantName = defaults.UI.AssistantName
	}
	if cfg.UI.MaxInputHeight == 0 {
		cfg.UI.MaxInputHeight = defaults.UI.MaxInputHeight
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// ErrConfigExists is returned by Init when the target file is already there.
var ErrConfigExists = errors.New("config file already exists")

// Init writes the default configuration as TOML and returns the path it
// wrote. An empty path means ConfigPathTOML. Existing files are kept unless
// force is set.
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return "", err
		}
		path = p
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return "", fmt.Errorf("config init writes TOML, got %q", path)
	}

	if force {
		return path, SaveTOML(Default(), path)
	}
	data, err := encodeTOML(Default())
	if err != nil {
		return "", err
	}
	if err := util.WriteFileAtomic(path, data, 0600, util.NoClobber); err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return path, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// SaveTOML writes the configuration to path as TOML with 0600 permissions,
// replacing any existing file.
func SaveTOML(cfg *Config, path string) error {
	data, err := encodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, data, 0600, util.Replace); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func encodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# partner configuration file\n")
	buf.WriteString("# Generated by partner - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors listing every
// offending field, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Endpoint.URL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "endpoint.url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "endpoint.url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got '%s'", c.Endpoint.URL),
		})
	}
	if c.Endpoint.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "endpoint.timeout_secs",
			Message: "must be positive",
		})
	}

	if c.Stream.MinDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "stream.min_delay_ms",
			Message: "cannot be negative",
		})
	}
	if c.Stream.MaxDelayMs < c.Stream.MinDelayMs {
		errs = append(errs, ValidationError{
			Field:   "stream.max_delay_ms",
			Message: fmt.Sprintf("must be >= min_delay_ms (%d)", c.Stream.MinDelayMs),
		})
	}

	if c.Clipboard.CopiedWindowMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "clipboard.copied_window_ms",
			Message: "must be positive",
		})
	}

	if c.Auth.SignInPerMinute <= 0 {
		errs = append(errs, ValidationError{
			Field:   "auth.sign_in_per_minute",
			Message: "must be positive",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.MaxInputHeight < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_input_height",
			Message: "must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//   - PARTNER_ENDPOINT_URL: overrides endpoint.url
//   - PARTNER_TIMEOUT_SECS: overrides endpoint.timeout_secs
//   - PARTNER_DB_PATH: overrides auth.db_path
//   - PARTNER_LOG_LEVEL: overrides log.level
//   - PARTNER_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PARTNER_ENDPOINT_URL"); v != "" {
		c.Endpoint.URL = v
	}
	if v := os.Getenv("PARTNER_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Endpoint.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("PARTNER_DB_PATH"); v != "" {
		c.Auth.DBPath = v
	}
	if v := os.Getenv("PARTNER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PARTNER_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
