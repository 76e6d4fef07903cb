package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	APIEndpoint       string        `mapstructure:"API_ENDPOINT"`
	AccessToken       string        `mapstructure:"ACCESS_TOKEN"`
	CachePath         string        `mapstructure:"CACHE_PATH"`
	CacheGCInterval   time.Duration `mapstructure:"CACHE_GC_INTERVAL"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RetryMaxElapsed   time.Duration `mapstructure:"RETRY_MAX_ELAPSED"`
	RequestsPerSecond float64       `mapstructure:"REQUESTS_PER_SECOND"`
	LinkPattern       string        `mapstructure:"LINK_PATTERN"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	SnapshotTimeout   time.Duration `mapstructure:"SNAPSHOT_TIMEOUT"`
	// Only the bot command needs it.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
}

// ErrMissingBotToken is returned by RequireBotToken.
var ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

var defaults = map[string]any{
	"API_ENDPOINT":        "",
	"ACCESS_TOKEN":        "",
	"CACHE_PATH":          "./cache_data",
	"CACHE_GC_INTERVAL":   "5m",
	"REQUEST_TIMEOUT":     "10s",
	"RETRY_MAX_ELAPSED":   "30s",
	"REQUESTS_PER_SECOND": 0,
	"LINK_PATTERN":        "/document/{id}/{slug}",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"SNAPSHOT_TIMEOUT":    "30s",
	"TELEGRAM_BOT_TOKEN":  "",
}

// LoadConfig reads configuration from config.yaml in path, overridden by
// environment variables, and validates it.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Every key needs a default for AutomaticEnv to reach Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = v.ReadInConfig()
	if err != nil {
		// A missing file is fine, environment variables may carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.APIEndpoint == "" {
		result = multierror.Append(result, errors.New("API_ENDPOINT is not set"))
	} else if u, err := url.Parse(c.APIEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("API_ENDPOINT %q is not an http(s) URL", c.APIEndpoint))
	}
	if c.CachePath == "" {
		result = multierror.Append(result, errors.New("CACHE_PATH is empty"))
	}
	if c.CacheGCInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("CACHE_GC_INTERVAL must not be negative, got %s", c.CacheGCInterval))
	}
	if c.RequestTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.RetryMaxElapsed < 0 {
		result = multierror.Append(result, fmt.Errorf("RETRY_MAX_ELAPSED must not be negative, got %s", c.RetryMaxElapsed))
	}
	if c.RequestsPerSecond < 0 {
		result = multierror.Append(result, fmt.Errorf("REQUESTS_PER_SECOND must not be negative, got %v", c.RequestsPerSecond))
	}
	if c.SnapshotTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("SNAPSHOT_TIMEOUT must be positive, got %s", c.SnapshotTimeout))
	}
	if c.LinkPattern == "" {
		result = multierror.Append(result, errors.New("LINK_PATTERN is empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		result = multierror.Append(result, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// RequireBotToken checks the settings the Telegram bot needs.
func (c Config) RequireBotToken() error {
	if c.TelegramBotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}
