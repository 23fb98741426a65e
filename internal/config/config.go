package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the docsearch client configuration.
type Config struct {
	Backend     BackendConfig     `yaml:"backend"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Render      RenderConfig      `yaml:"render"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// BackendConfig points the widgets at the search backend.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url"`
	UploadPath string `yaml:"upload_path"`
	SearchPath string `yaml:"search_path"`
	// RequestTimeoutSec bounds a single call. 0 = no timeout.
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	UserAgent         string `yaml:"user_agent"`
}

// RequestTimeout returns the per-call timeout (0 = none).
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSec) * time.Second
}

// DiagnosticsConfig holds the optional local diagnostics server settings.
// Empty Addr disables the server.
type DiagnosticsConfig struct {
	Addr        string   `yaml:"addr"`
	APIKeys     []string `yaml:"api_keys"`
	ShutdownSec int      `yaml:"shutdown_timeout_sec"`
}

// RenderConfig controls how answers are printed in the terminal.
type RenderConfig struct {
	Style    string `yaml:"style"` // auto, dark, light, notty, plain
	WordWrap int    `yaml:"word_wrap"`
}

// builtinConfig is used when no config file exists for the environment.
const builtinConfig = `
backend:
  base_url: ${DOCSEARCH_BACKEND_URL:-http://localhost:8000}
  request_timeout_sec: ${DOCSEARCH_REQUEST_TIMEOUT_SEC:-0}
diagnostics:
  addr: ${DOCSEARCH_DIAGNOSTICS_ADDR:-}
logging:
  level: ${LOG_LEVEL:-}
`

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file falls back to the built-in defaults.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, fs.ErrNotExist) {
		return Parse([]byte(builtinConfig))
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8000"
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.UploadPath == "" {
		c.Backend.UploadPath = "/api/upload"
	}
	if c.Backend.SearchPath == "" {
		c.Backend.SearchPath = "/api/search"
	}
	if c.Backend.UserAgent == "" {
		c.Backend.UserAgent = "docsearch"
	}
	if c.Diagnostics.ShutdownSec <= 0 {
		c.Diagnostics.ShutdownSec = 5
	}
	if c.Render.Style == "" {
		c.Render.Style = "auto"
	}
	if c.Render.WordWrap <= 0 {
		c.Render.WordWrap = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend.base_url must be an absolute http(s) URL, got %q", c.Backend.BaseURL)
	}
	for name, p := range map[string]string{
		"upload_path": c.Backend.UploadPath,
		"search_path": c.Backend.SearchPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("backend.%s must start with \"/\", got %q", name, p)
		}
	}
	if c.Backend.RequestTimeoutSec < 0 {
		return fmt.Errorf("backend.request_timeout_sec must be >= 0, got %d", c.Backend.RequestTimeoutSec)
	}
	switch c.Render.Style {
	case "auto", "dark", "light", "notty", "plain":
		// ok
	default:
		return fmt.Errorf(
			"render.style must be one of auto, dark, light, notty, plain, got %q", c.Render.Style,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
