package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrMissingRequired = errors.New("missing required configuration")
)

// DefaultEnvPrefix prefixes environment overrides, e.g. BLOGWEBHOOK_WEBHOOK_SECRET.
const DefaultEnvPrefix = "BLOGWEBHOOK"

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"url":          "webhook.url",
	"secret":       "webhook.secret",
	"timeout":      "webhook.timeout",
	"tracing":      "webhook.tracing",
	"pattern":      "publish.pattern",
	"update":       "publish.update",
	"strip-markup": "publish.strip_markup",
}

type LoadOptions struct {
	ConfigFile string
	EnvPrefix  string
	Defaults   *Config

	// Flags, when set, override file and environment values for the flags in
	// flagKeys that were explicitly changed.
	Flags *pflag.FlagSet
}

func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := opts.Defaults
	if defaults == nil {
		defaults = Default()
	}
	setViperDefaults(v, defaults)

	if opts.EnvPrefix == "" {
		opts.EnvPrefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(opts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("blogwebhook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/blogwebhook")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	expandEnvInConfig(v)

	if err := bindFlags(v, opts.Flags); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	return Load(LoadOptions{ConfigFile: path})
}

func LoadWithDefaults() (*Config, error) {
	return Load(LoadOptions{})
}

func setViperDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("webhook.url", cfg.Webhook.URL)
	v.SetDefault("webhook.secret", cfg.Webhook.Secret)
	v.SetDefault("webhook.timeout", cfg.Webhook.Timeout)
	v.SetDefault("webhook.tracing", cfg.Webhook.Tracing)
	v.SetDefault("webhook.tracing_endpoint", cfg.Webhook.TracingEndpoint)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("publish.pattern", cfg.Publish.Pattern)
	v.SetDefault("publish.update", cfg.Publish.Update)
	v.SetDefault("publish.strip_markup", cfg.Publish.StripMarkup)
	v.SetDefault("publish.debounce", cfg.Publish.Debounce)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

func expandEnvInConfig(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envVar := val[2 : len(val)-1]
			if envVal := os.Getenv(envVar); envVal != "" {
				v.Set(key, envVal)
			}
		}
	}
}

func ConfigFilePath(customPath string) (string, error) {
	if customPath != "" {
		absPath, err := filepath.Abs(customPath)
		if err != nil {
			return "", fmt.Errorf("resolving config path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", absPath)
		}
		return absPath, nil
	}

	searchPaths := []string{
		"blogwebhook.yaml",
		"blogwebhook.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "blogwebhook", "blogwebhook.yaml"),
	}

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", ErrConfigNotFound
}
