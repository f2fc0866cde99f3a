package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesTemplatesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine.CycleTimeout != 4*time.Minute {
		t.Errorf("cycle timeout = %v", cfg.Engine.CycleTimeout)
	}
	if cfg.Engine.InterSendDelay != time.Second {
		t.Errorf("inter-send delay = %v", cfg.Engine.InterSendDelay)
	}
	if cfg.MarketWindow.Timezone != "America/Sao_Paulo" ||
		cfg.MarketWindow.OpenHour != 10 || cfg.MarketWindow.CloseHour != 18 {
		t.Errorf("unexpected market window %+v", cfg.MarketWindow)
	}
	if cfg.Sources.DividendLookbackDays != 45 || cfg.Sources.DocumentLookbackDays != 7 {
		t.Errorf("unexpected lookbacks %+v", cfg.Sources)
	}
	if cfg.Summary.Enabled {
		t.Error("summary must be opt-in")
	}

	// First run generates both templates.
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config template not created: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	if err != nil {
		t.Fatalf("credentials template not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials template mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadReadsUserConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
cycle_timeout = "90s"

[market_window]
open_hour = 11

[sources]
quote_batch_size = 5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.CycleTimeout != 90*time.Second {
		t.Errorf("cycle timeout = %v", cfg.Engine.CycleTimeout)
	}
	if cfg.MarketWindow.OpenHour != 11 {
		t.Errorf("open hour = %d", cfg.MarketWindow.OpenHour)
	}
	if cfg.Sources.QuoteBatchSize != 5 {
		t.Errorf("batch size = %d", cfg.Sources.QuoteBatchSize)
	}
	// Unset keys keep their defaults.
	if cfg.Sources.MaxRetries != 3 {
		t.Errorf("max retries = %d", cfg.Sources.MaxRetries)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok-from-env")
	t.Setenv("FIIALERT_DB_PATH", "/tmp/custom.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credentials.Telegram.BotToken != "tok-from-env" {
		t.Errorf("bot token = %q", cfg.Credentials.Telegram.BotToken)
	}
	if cfg.Storage.DBPath != "/tmp/custom.db" {
		t.Errorf("db path = %q", cfg.Storage.DBPath)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := func() *Config {
		dir := t.TempDir()
		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cycle timeout", func(c *Config) { c.Engine.CycleTimeout = 0 }},
		{"open after close", func(c *Config) { c.MarketWindow.OpenHour = 18; c.MarketWindow.CloseHour = 10 }},
		{"open equals close", func(c *Config) { c.MarketWindow.OpenHour = 10; c.MarketWindow.CloseHour = 10 }},
		{"zero retries", func(c *Config) { c.Sources.MaxRetries = 0 }},
		{"zero batch size", func(c *Config) { c.Sources.QuoteBatchSize = 0 }},
		{"zero lookback", func(c *Config) { c.Sources.DividendLookbackDays = 0 }},
		{"summary without key", func(c *Config) { c.Summary.Enabled = true; c.Credentials.OpenAI.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
