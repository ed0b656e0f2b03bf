package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Webhook.Secret = "test-secret"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Webhook.URL != DefaultWebhookURL {
		t.Errorf("expected url %s, got %s", DefaultWebhookURL, cfg.Webhook.URL)
	}

	if cfg.Webhook.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Webhook.Timeout)
	}

	if cfg.Webhook.Secret != "" {
		t.Error("expected no default secret")
	}

	if cfg.Publish.Pattern != DefaultPattern {
		t.Errorf("expected pattern %s, got %s", DefaultPattern, cfg.Publish.Pattern)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_MissingSecret(t *testing.T) {
	err := Validate(Default())
	if err == nil {
		t.Fatal("expected validation error for missing secret")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	found := false
	for _, e := range errs {
		if e.Field == "webhook.secret" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected error for webhook.secret field")
	}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected ValidationErrors to unwrap to ErrInvalidConfig")
	}
	if !errors.Is(err, ErrMissingRequired) {
		t.Error("expected a missing secret to match ErrMissingRequired")
	}
}

func TestValidate_InvalidValueIsNotMissing(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.URL = "ftp://example.com/hook"

	err := Validate(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if errors.Is(err, ErrMissingRequired) {
		t.Error("a malformed URL is invalid, not missing")
	}
}

func TestValidate_WebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty", "", true},
		{"relative", "/api/webhook/blog", true},
		{"wrong scheme", "ftp://example.com/hook", true},
		{"http", "http://localhost:3000/api/webhook/blog", false},
		{"https", "https://blog.example.com/api/webhook/blog", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Webhook.URL = tt.url
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_TracingEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.TracingEndpoint = "collector:4318"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for endpoint without scheme")
	}

	cfg.Webhook.TracingEndpoint = "http://localhost:4318/v1/traces"
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "invalid"

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.Timeout = -time.Second
	cfg.Publish.Debounce = -time.Second

	err := Validate(cfg)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "blogwebhook.yaml")

	content := `
webhook:
  url: "https://blog.example.com/api/webhook/blog"
  secret: "file-secret"
  timeout: 5s
logging:
  level: "debug"
publish:
  pattern: "posts/*.md"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Webhook.URL != "https://blog.example.com/api/webhook/blog" {
		t.Errorf("unexpected url %s", cfg.Webhook.URL)
	}

	if cfg.Webhook.Secret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.Webhook.Secret)
	}

	if cfg.Webhook.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Webhook.Timeout)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	if cfg.Publish.Pattern != "posts/*.md" {
		t.Errorf("expected pattern posts/*.md, got %s", cfg.Publish.Pattern)
	}
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("MY_BLOG_SECRET", "expanded-secret")

	configPath := filepath.Join(t.TempDir(), "blogwebhook.yaml")
	content := "webhook:\n  secret: \"${MY_BLOG_SECRET}\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Webhook.Secret != "expanded-secret" {
		t.Errorf("expected expanded secret, got %q", cfg.Webhook.Secret)
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOGWEBHOOK_WEBHOOK_SECRET", "env-secret")
	t.Setenv("BLOGWEBHOOK_WEBHOOK_URL", "https://env.example.com/hook")

	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Webhook.Secret != "env-secret" {
		t.Errorf("expected secret from env, got %q", cfg.Webhook.Secret)
	}

	if cfg.Webhook.URL != "https://env.example.com/hook" {
		t.Errorf("expected url from env, got %s", cfg.Webhook.URL)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOGWEBHOOK_WEBHOOK_SECRET", "env-secret")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("secret", "", "")
	flags.String("url", "", "")
	flags.Duration("timeout", 0, "")
	if err := flags.Parse([]string{"--secret", "flag-secret", "--timeout", "2s"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{Flags: flags})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Webhook.Secret != "flag-secret" {
		t.Errorf("expected secret from flag, got %q", cfg.Webhook.Secret)
	}

	if cfg.Webhook.Timeout != 2*time.Second {
		t.Errorf("expected timeout from flag, got %v", cfg.Webhook.Timeout)
	}

	// Unchanged flags must not clobber defaults with their zero values.
	if cfg.Webhook.URL != DefaultWebhookURL {
		t.Errorf("expected default url, got %s", cfg.Webhook.URL)
	}
}

func TestGetConfigSchema_MasksSecret(t *testing.T) {
	schema := GetConfigSchema(validConfig(), "blogwebhook.yaml")

	sections := schema["sections"].(map[string]ConfigSectionMeta)
	secret := sections["webhook"].Fields["secret"].(ConfigFieldMeta)

	if secret.Current != "***SET***" {
		t.Errorf("expected masked secret, got %v", secret.Current)
	}

	if !secret.Sensitive {
		t.Error("expected secret to be marked sensitive")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                      "0s",
		30 * time.Second:       "30s",
		200 * time.Millisecond: "200ms",
		2 * time.Minute:        "2m",
		time.Hour:              "1h",
	}

	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %s, want %s", d, got, want)
		}
	}
}
