// Package config loads the client configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvBackendURL = "MARYME_BACKEND_URL"
	EnvToken      = "MARYME_TOKEN"
	EnvLogLevel   = "MARYME_LOG_LEVEL"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full client configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Artifact ArtifactConfig `yaml:"artifact"`
	Server   ServerConfig   `yaml:"server"`
}

// BackendConfig locates the REST backend.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"`
	Token     string `yaml:"token"`
	Timeout   string `yaml:"timeout"`
	Retries   int    `yaml:"retries"`
	UserAgent string `yaml:"user_agent"`
}

// AuthConfig tunes the one-time-code flow.
type AuthConfig struct {
	ResendInterval string `yaml:"resend_interval"`
}

// LogConfig selects the zap configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ArtifactConfig controls the confirmation document.
type ArtifactConfig struct {
	Dir           string            `yaml:"dir"`
	Format        string            `yaml:"format"`
	Theme         string            `yaml:"theme"`
	Variant       string            `yaml:"variant"`
	Tokens        map[string]string `yaml:"tokens"`
	CSSVars       map[string]string `yaml:"css_vars"`
	TerminalStyle string            `yaml:"terminal_style"`
	WordWrap      int               `yaml:"word_wrap"`
	PDF           PDFConfig         `yaml:"pdf"`
}

// PDFConfig enables browser-based PDF export.
type PDFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Browser string `yaml:"browser"`
	Timeout string `yaml:"timeout"`
}

// ServerConfig configures the commune lookup server.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// OptionFn overrides configuration after the file and environment.
type OptionFn func(*Config)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:3000",
			Timeout:   "15s",
			Retries:   3,
			UserAgent: "maryme",
		},
		Auth: AuthConfig{ResendInterval: "30s"},
		Log:  LogConfig{Level: "info", Format: "console"},
		Artifact: ArtifactConfig{
			Dir:           ".",
			Format:        "html",
			Theme:         "default",
			Variant:       "light",
			TerminalStyle: "auto",
			WordWrap:      80,
			PDF:           PDFConfig{Timeout: "30s"},
		},
		Server: ServerConfig{Addr: ":8080", BasePath: "/"},
	}
}

// WithBackendURL overrides the backend base URL.
func WithBackendURL(u string) OptionFn {
	return func(c *Config) {
		if u != "" {
			c.Backend.BaseURL = u
		}
	}
}

// WithToken overrides the bearer token.
func WithToken(token string) OptionFn {
	return func(c *Config) {
		if token != "" {
			c.Backend.Token = token
		}
	}
}

// WithLogLevel overrides the log level.
func WithLogLevel(level string) OptionFn {
	return func(c *Config) {
		if level != "" {
			c.Log.Level = level
		}
	}
}

// Load reads path over the defaults, then applies the environment and fns.
// A missing file is not an error; an empty path skips the file.
func Load(path string, fns ...OptionFn) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", filepath.Base(path), err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Backend.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every configuration error at once.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: backend.base_url %q must be an http(s) URL", ErrInvalid, c.Backend.BaseURL))
	}
	if c.Backend.Retries < 0 {
		errs = append(errs, fmt.Errorf("%w: backend.retries must not be negative", ErrInvalid))
	}
	for name, raw := range map[string]string{
		"backend.timeout":      c.Backend.Timeout,
		"auth.resend_interval": c.Auth.ResendInterval,
		"artifact.pdf.timeout": c.Artifact.PDF.Timeout,
	} {
		if _, err := parseDuration(raw); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format))
	}
	return errors.Join(errs...)
}

// RequestTimeout is the backend request timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := parseDuration(c.Backend.Timeout)
	return d
}

// ResendInterval is the minimum delay between two code requests.
func (c *Config) ResendInterval() time.Duration {
	d, _ := parseDuration(c.Auth.ResendInterval)
	return d
}

// PDFTimeout bounds one PDF export.
func (c *Config) PDFTimeout() time.Duration {
	d, _ := parseDuration(c.Artifact.PDF.Timeout)
	return d
}

// Theme builds the artifact theme configuration.
func (c *Config) Theme() *theme.RendererConfig {
	a := c.Artifact
	if a.Theme == "" && len(a.Tokens) == 0 && len(a.CSSVars) == 0 {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   a.Theme,
		Variant: a.Variant,
		Tokens:  cloneMap(a.Tokens),
		CSSVars: cloneMap(a.CSSVars),
	}
}

func parseDuration(raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
