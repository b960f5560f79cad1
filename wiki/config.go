package wiki

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the service. All durations are expressed in whole seconds
// so the YAML file stays plain.
type Config struct {
	// Upstream wiki endpoints.
	APIURL    string `yaml:"api_url"`
	SiteURL   string `yaml:"site_url"`
	UserAgent string `yaml:"user_agent"`

	// Fetch behavior.
	CacheTTLSeconds       int     `yaml:"cache_ttl_seconds"`
	CacheMaxSize          int     `yaml:"cache_max_size"`
	RequestsPerSecond     float64 `yaml:"requests_per_second"`
	MaxRetries            int     `yaml:"max_retries"`
	BackoffInitialSeconds float64 `yaml:"backoff_initial_seconds"`
	BackoffFactor         float64 `yaml:"backoff_factor"`
	HTTPTimeoutSeconds    int     `yaml:"http_timeout_seconds"`

	// HistoryDB is the SQLite path for the fetch log. Empty disables it.
	HistoryDB string `yaml:"history_db"`

	Debug bool `yaml:"debug"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.APIURL == "" {
		c.APIURL = "https://stardewvalleywiki.com/mediawiki/api.php"
	}
	if c.SiteURL == "" {
		c.SiteURL = "https://stardewvalleywiki.com"
	}
	if c.UserAgent == "" {
		c.UserAgent = "stardewiki/1.0"
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = 3600
	}
	if c.CacheMaxSize <= 0 {
		c.CacheMaxSize = 100
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffInitialSeconds <= 0 {
		c.BackoffInitialSeconds = 1
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = 10
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// LoadConfig reads a YAML config file. A missing path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.defaults()
	return cfg, nil
}
