package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string

	// Err, when set, is a sentinel the error matches (ErrMissingRequired).
	Err error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e ValidationErrors) Unwrap() []error {
	errs := []error{ErrInvalidConfig}
	for _, v := range e {
		if v.Err != nil {
			errs = append(errs, v.Err)
		}
	}
	return errs
}

func Validate(cfg *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateWebhook(&cfg.Webhook)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validatePublish(&cfg.Publish)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateWebhook(cfg *WebhookConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.URL == "" {
		errs = append(errs, ValidationError{
			Field:   "webhook.url",
			Message: "is required",
			Err:     ErrMissingRequired,
		})
	} else if u, err := url.Parse(cfg.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "webhook.url",
			Message: "must be an absolute http or https URL",
		})
	}

	if cfg.Secret == "" {
		errs = append(errs, ValidationError{
			Field:   "webhook.secret",
			Message: "is required (set BLOGWEBHOOK_WEBHOOK_SECRET or --secret)",
			Err:     ErrMissingRequired,
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "webhook.timeout",
			Message: "must be non-negative",
		})
	}

	if cfg.TracingEndpoint != "" {
		if u, err := url.Parse(cfg.TracingEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "webhook.tracing_endpoint",
				Message: "must be an absolute URL",
			})
		}
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be one of: trace, debug, info, warn, error",
		})
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'console'",
		})
	}

	return errs
}

func validatePublish(cfg *PublishConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "publish.debounce",
			Message: "must be non-negative",
		})
	}

	return errs
}
