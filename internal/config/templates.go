package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# FII Alert Engine Configuration

[engine]
# Overall deadline for one cycle (in-flight dispatches finish, new ones stop)
cycle_timeout = "4m"
# Fixed delay between consecutive sends on one channel
inter_send_delay = "1s"
# Cooldown between on-demand quote requests per (user, ticker)
quote_cooldown = "2m"

[market_window]
# Price-variation alerts are suppressed outside this window (weekdays only).
# Dividend and document alerts are delivered at any time.
timezone = "America/Sao_Paulo"
open_hour = 10
open_minute = 0
close_hour = 18
close_minute = 0

[sources]
quote_base_url = "https://brapi.dev/api"
dividend_base_url = "https://www.fundsexplorer.com.br/api"
document_base_url = "https://fnet.bmfbovespa.com.br/fnet/publico"
# Per-request timeout for upstream calls
request_timeout = "15s"
# Retry budget for transient upstream errors (5xx, timeouts)
max_retries = 3
retry_base_delay = "500ms"
# Tickers per batched quote request
quote_batch_size = 20
# Lookback window per event kind, in days
dividend_lookback_days = 45
document_lookback_days = 7

[notifications]
# Per-provider timeout; on failure the next provider in the chain is tried
provider_timeout = "10s"
# Providers are tried in order: telegram, callmebot, log
log_fallback = true

[notifications.telegram]
enabled = true

[notifications.callmebot]
enabled = true

[summary]
# Summarize filed documents before dispatch (requires OpenAI API key)
enabled = false
model = "gpt-4o-mini"

[storage]
# db_path = "/path/to/fiialert.db"

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

const credentialsTemplate = `# FII Alert Engine Credentials
# Keep this file private (chmod 600)

[telegram]
bot_token = ""

[callmebot]
api_key = ""

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}
