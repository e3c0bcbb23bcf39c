package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Browser  BrowserConfig  `yaml:"browser"`
	Egress   EgressConfig   `yaml:"egress"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ScraperConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Sports          []string      `yaml:"sports"`
	SessionFile     string        `yaml:"session_file"`
	AuditDir        string        `yaml:"audit_dir"`
	RotationPause   time.Duration `yaml:"rotation_pause"`
	WarmupRegions   int           `yaml:"warmup_regions"`
	MaxScrollRounds int           `yaml:"max_scroll_rounds"`
	ScrollSettle    time.Duration `yaml:"scroll_settle"`
	ToggleRetries   int           `yaml:"toggle_retries"`
	ExpandRetries   int           `yaml:"expand_retries"`
}

type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	OpTimeout         time.Duration `yaml:"op_timeout"`
}

type EgressConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
	BackoffBase time.Duration `yaml:"backoff_base"`
	RateLimit   float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	BotToken        string        `yaml:"bot_token"`
	ChatID          int64         `yaml:"chat_id"`
	MinSendInterval time.Duration `yaml:"min_send_interval"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config. Secrets may come from the environment instead
// of the file: POSTGRES_DSN and TELEGRAM_BOT_TOKEN override their YAML
// counterparts when set.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		config.Postgres.DSN = dsn
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.BotToken = token
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.BaseURL == "" {
		c.Scraper.BaseURL = "https://www.sisal.it/scommesse-matchpoint"
	}
	if c.Scraper.SessionFile == "" {
		c.Scraper.SessionFile = "session.json"
	}
	if c.Scraper.AuditDir == "" {
		c.Scraper.AuditDir = "."
	}
	if c.Scraper.WarmupRegions <= 0 {
		c.Scraper.WarmupRegions = 3
	}
	if c.Scraper.MaxScrollRounds <= 0 {
		c.Scraper.MaxScrollRounds = 30
	}
	if c.Scraper.ScrollSettle <= 0 {
		c.Scraper.ScrollSettle = 200 * time.Millisecond
	}
	if c.Scraper.ToggleRetries <= 0 {
		c.Scraper.ToggleRetries = 6
	}
	if c.Scraper.ExpandRetries <= 0 {
		c.Scraper.ExpandRetries = 5
	}
	if c.Browser.NavigationTimeout <= 0 {
		c.Browser.NavigationTimeout = 45 * time.Second
	}
	if c.Browser.OpTimeout <= 0 {
		c.Browser.OpTimeout = 15 * time.Second
	}
}
