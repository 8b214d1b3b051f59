package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Capture settings. These are not exposed as flags.
	RawPrefixes         string  `mapstructure:"CAPTURE_PREFIXES"`
	OutputDirName       string  `mapstructure:"OUTPUT_DIR_NAME"`
	Scale               float64 `mapstructure:"CAPTURE_SCALE"`
	ViewportWidth       int     `mapstructure:"VIEWPORT_WIDTH"`
	ViewportHeight      int     `mapstructure:"VIEWPORT_HEIGHT"`
	SettleDelayMS       int     `mapstructure:"SETTLE_DELAY_MS"`
	ArticlesDir         string  `mapstructure:"ARTICLES_DIR"`
	PageLoadTimeoutSecs int     `mapstructure:"PAGE_LOAD_TIMEOUT_SECONDS"`
	ContinueOnLoadError bool    `mapstructure:"CONTINUE_ON_LOAD_ERROR"`
	ChromePath          string  `mapstructure:"CHROME_PATH"`

	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	ServerPort      string `mapstructure:"SERVER_PORT"`
	MetricsTextfile string `mapstructure:"METRICS_TEXTFILE"`

	Prefixes []string `mapstructure:"-"`
}

// Load reads configuration from a .env file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The .env file is optional; environment variables are enough.
	_ = v.ReadInConfig()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CAPTURE_PREFIXES", "fig-,chart-,diagram-,table-")
	v.SetDefault("OUTPUT_DIR_NAME", "images")
	v.SetDefault("CAPTURE_SCALE", 2.0)
	v.SetDefault("VIEWPORT_WIDTH", 2400)
	v.SetDefault("VIEWPORT_HEIGHT", 1600)
	v.SetDefault("SETTLE_DELAY_MS", 500)
	v.SetDefault("ARTICLES_DIR", "articles")
	v.SetDefault("PAGE_LOAD_TIMEOUT_SECONDS", 0) // 0 disables the watchdog
	v.SetDefault("CONTINUE_ON_LOAD_ERROR", false)
	v.SetDefault("CHROME_PATH", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("METRICS_TEXTFILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Prefixes = splitList(cfg.RawPrefixes)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the capture driver cannot work with.
func (c *Config) Validate() error {
	switch {
	case len(c.Prefixes) == 0:
		return fmt.Errorf("CAPTURE_PREFIXES must name at least one prefix")
	case c.Scale <= 0:
		return fmt.Errorf("CAPTURE_SCALE must be positive, got %v", c.Scale)
	case c.ViewportWidth <= 0 || c.ViewportHeight <= 0:
		return fmt.Errorf("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	case c.OutputDirName == "" || strings.ContainsAny(c.OutputDirName, `/\`):
		return fmt.Errorf("OUTPUT_DIR_NAME must be a single path element, got %q", c.OutputDirName)
	case c.SettleDelayMS < 0 || c.PageLoadTimeoutSecs < 0:
		return fmt.Errorf("delays and timeouts cannot be negative")
	}
	return nil
}

// SettleDelay is the pause between the load signals and the first query.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// PageLoadTimeout bounds a single document. Zero means no bound.
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSecs) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
