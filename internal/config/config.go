// Package config provides configuration management for blogwebhook.
package config

import (
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Webhook WebhookConfig `mapstructure:"webhook"`
	Logging LoggingConfig `mapstructure:"logging"`
	Publish PublishConfig `mapstructure:"publish"`
}

// WebhookConfig holds the endpoint and credentials.
type WebhookConfig struct {
	// Webhook endpoint URL
	URL string `mapstructure:"url"`

	// Shared HMAC secret, must match the blog's WEBHOOK_SECRET
	Secret string `mapstructure:"secret"`

	// Per-command deadline for a single request (0 disables)
	Timeout time.Duration `mapstructure:"timeout"`

	// Wrap the HTTP transport with OpenTelemetry instrumentation
	Tracing bool `mapstructure:"tracing"`

	// OTLP/HTTP collector URL for spans; empty uses the OTEL_EXPORTER_OTLP_* environment
	TracingEndpoint string `mapstructure:"tracing_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Log format (json, console)
	Format string `mapstructure:"format"`
}

// PublishConfig holds defaults for the publish and watch commands.
type PublishConfig struct {
	// Glob pattern for post files, relative to the content directory
	Pattern string `mapstructure:"pattern"`

	// Update posts that already exist instead of failing
	Update bool `mapstructure:"update"`

	// Strip HTML from plain-text frontmatter fields
	StripMarkup bool `mapstructure:"strip_markup"`

	// Debounce window for file change events
	Debounce time.Duration `mapstructure:"debounce"`
}
