// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers an optional YAML file and BOTTLENECK_* env vars on top.
// - Errors wrap ErrLoadConfig or ErrInvalidConfig so callers can errors.Is.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a catalog YAML file. Empty uses the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// MaxSearchResults caps GET /cpus, /gpus and /motherboards.
	MaxSearchResults int `koanf:"max_search_results"`

	// RateLimitRPS and RateLimitBurst configure the token bucket in front of
	// the API. RPS 0 disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// MCPEnabled mounts the Model Context Protocol endpoint at MCPPath.
	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`

	// UpdateCheck* control the one-shot release check at startup.
	UpdateCheckEnabled   bool   `koanf:"update_check_enabled"`
	UpdateCheckURL       string `koanf:"update_check_url"`
	UpdateCheckTimeoutMS int    `koanf:"update_check_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// DefaultUpdateCheckURL is the project's GitHub latest-release endpoint.
const DefaultUpdateCheckURL = "https://api.github.com/repos/okian/bottleneck/releases/latest"

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		MaxSearchResults:     500,
		RateLimitRPS:         50,
		RateLimitBurst:       100,
		MCPEnabled:           true,
		MCPPath:              "/mcp",
		UpdateCheckEnabled:   false,
		UpdateCheckURL:       DefaultUpdateCheckURL,
		UpdateCheckTimeoutMS: 5000,
		ShutdownTimeoutMS:    10_000,
	}
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxSearchResults <= 0:
		return fmt.Errorf("%w: max_search_results must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst == 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate_limit_rps is set", ErrInvalidConfig)
	case c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/"):
		return fmt.Errorf("%w: mcp_path must start with /", ErrInvalidConfig)
	case c.UpdateCheckEnabled && c.UpdateCheckURL == "":
		return fmt.Errorf("%w: update_check_url must be set when update checks are enabled", ErrInvalidConfig)
	case c.UpdateCheckEnabled && c.UpdateCheckTimeoutMS <= 0:
		return fmt.Errorf("%w: update_check_timeout_ms must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}

// UpdateCheckTimeout returns UpdateCheckTimeoutMS as a duration.
func (c *Config) UpdateCheckTimeout() time.Duration {
	return time.Duration(c.UpdateCheckTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
