package model

import (
	"time"

	"github.com/hamidzr/stylefind/constant"
)

// Config holds all configuration for the application.
type Config struct {
	// catalog
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
	RateLimit      float64       `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`

	// cache
	CacheBackend      string        `mapstructure:"cache_backend" yaml:"cache_backend" validate:"oneof=sqlite memory"`
	CachePath         string        `mapstructure:"cache_path" yaml:"cache_path"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" validate:"gt=0"`
	CacheMaxBytes     int64         `mapstructure:"cache_max_bytes" yaml:"cache_max_bytes" validate:"gt=0"`
	CacheWriteDelay   time.Duration `mapstructure:"cache_write_delay" yaml:"cache_write_delay" validate:"gte=0"`
	CacheCleanupDelay time.Duration `mapstructure:"cache_cleanup_delay" yaml:"cache_cleanup_delay" validate:"gte=0"`

	// category resolution
	SelfScheme string `mapstructure:"self_scheme" yaml:"self_scheme"`
	SelfName   string `mapstructure:"self_name" yaml:"self_name"`

	// installed styles
	InstalledPath  string `mapstructure:"installed_path" yaml:"installed_path"`
	WatchInstalled bool   `mapstructure:"watch_installed" yaml:"watch_installed"`

	// display
	Title           string        `mapstructure:"title" yaml:"title"`
	ItemsPerPage    int           `mapstructure:"items_per_page" yaml:"items_per_page" validate:"gt=0"`
	FadeInThreshold time.Duration `mapstructure:"fade_in_threshold" yaml:"fade_in_threshold" validate:"gte=0"`
	TerminalMode    bool          `mapstructure:"terminal_mode" yaml:"terminal_mode"`
	MinWidth        float32       `mapstructure:"min_width" yaml:"min_width"`
	MinHeight       float32       `mapstructure:"min_height" yaml:"min_height"`

	// observability
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error"`
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           constant.BaseURL,
		RequestTimeout:    30 * time.Second,
		RateLimit:         5,
		UserAgent:         constant.ProjectName,
		CacheBackend:      "sqlite",
		CachePath:         "", // resolved to the user cache dir
		CacheTTL:          constant.CacheDuration,
		CacheMaxBytes:     constant.CacheSize,
		CacheWriteDelay:   constant.CacheWriteDelay,
		CacheCleanupDelay: constant.CacheCleanupThrottle,
		SelfScheme:        "chrome-extension",
		SelfName:          "Stylus",
		InstalledPath:     "", // resolved to the user config dir
		WatchInstalled:    true,
		Title:             constant.ProjectName,
		ItemsPerPage:      constant.DisplayPerPage,
		FadeInThreshold:   constant.FadeInThreshold,
		TerminalMode:      false,
		MinWidth:          600,
		MinHeight:         400,
		LogLevel:          "info",
		MetricsAddr:       "",
	}
}
