package config

import "time"

// Default configuration values.
const (
	// Webhook defaults.
	DefaultWebhookURL = "http://localhost:3000/api/webhook/blog"
	DefaultTimeout    = 30 * time.Second

	// Logging defaults.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	// Publish defaults.
	DefaultPattern  = "**.{md,mdx}"
	DefaultDebounce = 200 * time.Millisecond
)

// Default returns a Config with sensible defaults. The secret has no default.
func Default() *Config {
	return &Config{
		Webhook: WebhookConfig{
			URL:     DefaultWebhookURL,
			Timeout: DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Publish: PublishConfig{
			Pattern:  DefaultPattern,
			Debounce: DefaultDebounce,
		},
	}
}
