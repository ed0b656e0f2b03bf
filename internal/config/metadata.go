package config

import (
	"fmt"
	"time"
)

// ConfigFieldType represents the type of a configuration field.
type ConfigFieldType string

const (
	FieldTypeString   ConfigFieldType = "string"
	FieldTypeBool     ConfigFieldType = "bool"
	FieldTypeDuration ConfigFieldType = "duration"
	FieldTypeSecret   ConfigFieldType = "secret"
)

// ConfigFieldMeta holds metadata about a configuration field.
type ConfigFieldMeta struct {
	Type        ConfigFieldType `json:"type"`
	Description string          `json:"description,omitempty"`
	Default     any             `json:"default,omitempty"`
	Current     any             `json:"current,omitempty"`
	Sensitive   bool            `json:"sensitive,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Options     []string        `json:"options,omitempty"`
}

// ConfigSectionMeta holds metadata about a configuration section.
type ConfigSectionMeta struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// GetConfigSchema returns the configuration schema with defaults and current
// values. Secrets are reported only as set or unset.
func GetConfigSchema(current *Config, configPath string) map[string]any {
	defaults := Default()

	sections := map[string]ConfigSectionMeta{
		"webhook": {
			Name:        "Webhook",
			Description: "Blog webhook endpoint and credentials",
			Fields: map[string]any{
				"url": ConfigFieldMeta{
					Type:        FieldTypeString,
					Description: "Webhook endpoint URL",
					Default:     defaults.Webhook.URL,
					Current:     current.Webhook.URL,
					Required:    true,
				},
				"secret": ConfigFieldMeta{
					Type:        FieldTypeSecret,
					Description: "Shared HMAC-SHA256 signing secret",
					Current:     isSecretSet(current.Webhook.Secret),
					Sensitive:   true,
					Required:    true,
				},
				"timeout": ConfigFieldMeta{
					Type:        FieldTypeDuration,
					Description: "Deadline for a single request",
					Default:     formatDuration(defaults.Webhook.Timeout),
					Current:     formatDuration(current.Webhook.Timeout),
				},
				"tracing": ConfigFieldMeta{
					Type:        FieldTypeBool,
					Description: "OpenTelemetry client instrumentation",
					Default:     defaults.Webhook.Tracing,
					Current:     current.Webhook.Tracing,
				},
				"tracing_endpoint": ConfigFieldMeta{
					Type:        FieldTypeString,
					Description: "OTLP/HTTP collector URL for spans",
					Current:     current.Webhook.TracingEndpoint,
				},
			},
		},
		"logging": {
			Name:        "Logging",
			Description: "Log output settings",
			Fields: map[string]any{
				"level": ConfigFieldMeta{
					Type:        FieldTypeString,
					Description: "Log level",
					Default:     defaults.Logging.Level,
					Current:     current.Logging.Level,
					Options:     []string{"trace", "debug", "info", "warn", "error"},
				},
				"format": ConfigFieldMeta{
					Type:        FieldTypeString,
					Description: "Log format",
					Default:     defaults.Logging.Format,
					Current:     current.Logging.Format,
					Options:     []string{"console", "json"},
				},
			},
		},
		"publish": {
			Name:        "Publish",
			Description: "Defaults for publish and watch",
			Fields: map[string]any{
				"pattern": ConfigFieldMeta{
					Type:        FieldTypeString,
					Description: "Glob pattern for post files",
					Default:     defaults.Publish.Pattern,
					Current:     current.Publish.Pattern,
				},
				"update": ConfigFieldMeta{
					Type:        FieldTypeBool,
					Description: "Update posts that already exist",
					Default:     defaults.Publish.Update,
					Current:     current.Publish.Update,
				},
				"strip_markup": ConfigFieldMeta{
					Type:        FieldTypeBool,
					Description: "Strip HTML from plain-text frontmatter fields",
					Default:     defaults.Publish.StripMarkup,
					Current:     current.Publish.StripMarkup,
				},
				"debounce": ConfigFieldMeta{
					Type:        FieldTypeDuration,
					Description: "Debounce window for file change events",
					Default:     formatDuration(defaults.Publish.Debounce),
					Current:     formatDuration(current.Publish.Debounce),
				},
			},
		},
	}

	return map[string]any{
		"sections": sections,
		"path":     configPath,
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	// Convert to human-readable format
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", d/time.Second)
	}
	if d%time.Millisecond == 0 {
		return fmt.Sprintf("%dms", d/time.Millisecond)
	}
	return d.String()
}

func isSecretSet(secret string) any {
	if secret == "" {
		return ""
	}
	return "***SET***"
}
