package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the imagery API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Proxy     ProxyConfig     `yaml:"proxy"`
	Watermark WatermarkConfig `yaml:"watermark"`
	DeadLink  DeadLinkConfig  `yaml:"dead_link"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds ranked index and pagination settings.
type SearchConfig struct {
	Index           string `yaml:"index"`       // FT index name
	KeyPrefix       string `yaml:"key_prefix"`  // image record key prefix
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	HitCeiling      int    `yaml:"hit_ceiling"`        // deepest ranked hit exposed to callers
	MaxResultWindow int    `yaml:"max_result_window"`  // deepest window the index itself serves
}

// ProxyConfig holds image proxy rewrite settings.
type ProxyConfig struct {
	Enabled        bool     `yaml:"enabled"`  // proxy thumbnails at all
	BaseURL        string   `yaml:"base_url"` // proxy service root, no trailing slash
	ThumbnailWidth int      `yaml:"thumbnail_width_px"`
	ProxyAll       []string `yaml:"proxy_all"` // providers always proxied, even over https
}

// WatermarkConfig holds watermark pipeline settings.
type WatermarkConfig struct {
	FetchTimeoutSec int   `yaml:"fetch_timeout_sec"`
	MaxSourceBytes  int64 `yaml:"max_source_bytes"`
	MaxConcurrent   int   `yaml:"max_concurrent"`
	JPEGQuality     int   `yaml:"jpeg_quality"`
}

// DeadLinkConfig holds dead-link probe settings.
type DeadLinkConfig struct {
	ProbeTimeoutSec int `yaml:"probe_timeout_sec"`
	CacheTTLSec     int `yaml:"cache_ttl_sec"`
	MaxParallel     int `yaml:"max_parallel"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Watermark responses stream megabytes of JPEG; give them room.
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.Index == "" {
		c.Search.Index = "image:idx"
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "img:"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 500
	}
	if c.Search.HitCeiling <= 0 {
		c.Search.HitCeiling = 5000
	}
	if c.Search.MaxResultWindow <= 0 {
		c.Search.MaxResultWindow = 10000
	}
	if c.Proxy.ThumbnailWidth <= 0 {
		c.Proxy.ThumbnailWidth = 600
	}
	if c.Watermark.FetchTimeoutSec <= 0 {
		c.Watermark.FetchTimeoutSec = 10
	}
	if c.Watermark.MaxSourceBytes <= 0 {
		c.Watermark.MaxSourceBytes = 32 << 20 // 32MB
	}
	if c.Watermark.MaxConcurrent <= 0 {
		c.Watermark.MaxConcurrent = 4
	}
	if c.Watermark.JPEGQuality <= 0 {
		c.Watermark.JPEGQuality = 75
	}
	if c.DeadLink.ProbeTimeoutSec <= 0 {
		c.DeadLink.ProbeTimeoutSec = 2
	}
	if c.DeadLink.CacheTTLSec <= 0 {
		c.DeadLink.CacheTTLSec = 3600
	}
	if c.DeadLink.MaxParallel <= 0 {
		c.DeadLink.MaxParallel = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size %d is below search.default_page_size %d",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	if c.Search.MaxResultWindow < c.Search.HitCeiling {
		return fmt.Errorf("search.max_result_window %d is below search.hit_ceiling %d",
			c.Search.MaxResultWindow, c.Search.HitCeiling)
	}
	if c.Proxy.Enabled && c.Proxy.BaseURL == "" {
		return fmt.Errorf("proxy.base_url is required when proxy.enabled is true")
	}
	if strings.HasSuffix(c.Proxy.BaseURL, "/") {
		return fmt.Errorf("proxy.base_url must not end with a slash, got %q", c.Proxy.BaseURL)
	}
	if c.Watermark.JPEGQuality > 100 {
		return fmt.Errorf("watermark.jpeg_quality must be between 1 and 100, got %d", c.Watermark.JPEGQuality)
	}
	return nil
}

// findConfigPath locates the config file. CONFIG_PATH overrides the search.
func findConfigPath(env string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

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
