// Package config provides configuration management for the alert engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Engine        EngineConfig       `mapstructure:"engine"`
	MarketWindow  MarketWindowConfig `mapstructure:"market_window"`
	Sources       SourcesConfig      `mapstructure:"sources"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Summary       SummaryConfig      `mapstructure:"summary"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// EngineConfig holds cycle-driver configuration.
type EngineConfig struct {
	CycleTimeout   time.Duration `mapstructure:"cycle_timeout"`
	InterSendDelay time.Duration `mapstructure:"inter_send_delay"`
	QuoteCooldown  time.Duration `mapstructure:"quote_cooldown"`
}

// MarketWindowConfig holds the trading-hours gate for price-variation alerts.
// Dividend and document alerts are never window-gated.
type MarketWindowConfig struct {
	Timezone    string `mapstructure:"timezone"`
	OpenHour    int    `mapstructure:"open_hour"`
	OpenMinute  int    `mapstructure:"open_minute"`
	CloseHour   int    `mapstructure:"close_hour"`
	CloseMinute int    `mapstructure:"close_minute"`
}

// SourcesConfig holds upstream source configuration.
type SourcesConfig struct {
	QuoteBaseURL    string        `mapstructure:"quote_base_url"`
	DividendBaseURL string        `mapstructure:"dividend_base_url"`
	DocumentBaseURL string        `mapstructure:"document_base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay"`
	QuoteBatchSize  int           `mapstructure:"quote_batch_size"`

	// Lookback windows differ per event kind; both are configurable because
	// no single value fits filings and dividend feeds alike.
	DividendLookbackDays int `mapstructure:"dividend_lookback_days"`
	DocumentLookbackDays int `mapstructure:"document_lookback_days"`
}

// NotificationConfig holds the delivery-provider chain configuration.
// Providers are tried in order: telegram, callmebot, log.
type NotificationConfig struct {
	ProviderTimeout time.Duration   `mapstructure:"provider_timeout"`
	Telegram        TelegramConfig  `mapstructure:"telegram"`
	CallMeBot       CallMeBotConfig `mapstructure:"callmebot"`
	LogFallback     bool            `mapstructure:"log_fallback"`
}

// TelegramConfig holds Telegram provider configuration.
type TelegramConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CallMeBotConfig holds CallMeBot WhatsApp provider configuration.
type CallMeBotConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SummaryConfig holds document-summary configuration.
type SummaryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds log-output configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	Telegram  TelegramCredentials  `mapstructure:"telegram"`
	CallMeBot CallMeBotCredentials `mapstructure:"callmebot"`
	OpenAI    OpenAICredentials    `mapstructure:"openai"`
}

// TelegramCredentials holds the Telegram bot token.
type TelegramCredentials struct {
	BotToken string `mapstructure:"bot_token"`
}

// CallMeBotCredentials holds the CallMeBot API key.
type CallMeBotCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fiialert"
	}
	return filepath.Join(home, ".config", "fiialert")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.cycle_timeout", "4m")
	v.SetDefault("engine.inter_send_delay", "1s")
	v.SetDefault("engine.quote_cooldown", "2m")

	// B3 trading session, Monday through Friday.
	v.SetDefault("market_window.timezone", "America/Sao_Paulo")
	v.SetDefault("market_window.open_hour", 10)
	v.SetDefault("market_window.open_minute", 0)
	v.SetDefault("market_window.close_hour", 18)
	v.SetDefault("market_window.close_minute", 0)

	v.SetDefault("sources.quote_base_url", "https://brapi.dev/api")
	v.SetDefault("sources.dividend_base_url", "https://www.fundsexplorer.com.br/api")
	v.SetDefault("sources.document_base_url", "https://fnet.bmfbovespa.com.br/fnet/publico")
	v.SetDefault("sources.request_timeout", "15s")
	v.SetDefault("sources.max_retries", 3)
	v.SetDefault("sources.retry_base_delay", "500ms")
	v.SetDefault("sources.quote_batch_size", 20)
	v.SetDefault("sources.dividend_lookback_days", 45)
	v.SetDefault("sources.document_lookback_days", 7)

	v.SetDefault("notifications.provider_timeout", "10s")
	v.SetDefault("notifications.telegram.enabled", true)
	v.SetDefault("notifications.callmebot.enabled", true)
	v.SetDefault("notifications.log_fallback", true)

	v.SetDefault("summary.enabled", false)
	v.SetDefault("summary.model", "gpt-4o-mini")

	v.SetDefault("storage.db_path", filepath.Join(DefaultConfigDir(), "fiialert.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Credentials.Telegram.BotToken = v
	}
	if v := os.Getenv("CALLMEBOT_API_KEY"); v != "" {
		cfg.Credentials.CallMeBot.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("FIIALERT_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.CycleTimeout <= 0 {
		return fmt.Errorf("engine.cycle_timeout must be positive")
	}
	if c.Engine.InterSendDelay < 0 {
		return fmt.Errorf("engine.inter_send_delay must be non-negative")
	}
	if c.MarketWindow.OpenHour < 0 || c.MarketWindow.OpenHour > 23 {
		return fmt.Errorf("market_window.open_hour must be between 0 and 23")
	}
	if c.MarketWindow.CloseHour < 0 || c.MarketWindow.CloseHour > 23 {
		return fmt.Errorf("market_window.close_hour must be between 0 and 23")
	}
	open := c.MarketWindow.OpenHour*60 + c.MarketWindow.OpenMinute
	closeAt := c.MarketWindow.CloseHour*60 + c.MarketWindow.CloseMinute
	if open >= closeAt {
		return fmt.Errorf("market_window open must precede close")
	}
	if c.Sources.MaxRetries < 1 {
		return fmt.Errorf("sources.max_retries must be at least 1")
	}
	if c.Sources.QuoteBatchSize < 1 {
		return fmt.Errorf("sources.quote_batch_size must be at least 1")
	}
	if c.Sources.DividendLookbackDays < 1 || c.Sources.DocumentLookbackDays < 1 {
		return fmt.Errorf("source lookback windows must be at least 1 day")
	}
	if c.Summary.Enabled && c.Credentials.OpenAI.APIKey == "" {
		return fmt.Errorf("summary.enabled requires an OpenAI API key")
	}
	return nil
}
