// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "QUOTE_"

	// envNestingSeparator separates nested keys in environment variable names
	// (QUOTE_DOCUMENT__PATH -> document.path).
	envNestingSeparator = "__"

	// DefaultConfigDir is where base and profile files are looked up.
	DefaultConfigDir = "configs"

	// DefaultClientTimeout is the default request timeout for the quote source.
	DefaultClientTimeout = 10 * time.Second

	// DefaultMaxBodyBytes caps the quote response body (1MB).
	DefaultMaxBodyBytes = 1 << 20

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 10

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 2

	// DefaultTransportIdleConnTimeout is the default idle connection timeout.
	DefaultTransportIdleConnTimeout = 30 * time.Second

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 10

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// listKeys are keys whose environment values are comma-separated lists.
var listKeys = map[string]bool{
	"source.text_fields":   true,
	"source.author_fields": true,
}

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Source    SourceConfig    `koanf:"source"    validate:"required"`
	Document  DocumentConfig  `koanf:"document"  validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev ci prod test"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// MetricsConfig contains Prometheus Pushgateway settings.
// Scheduled runs are too short-lived to be scraped, so metrics are pushed once per run.
type MetricsConfig struct {
	Enabled        bool          `koanf:"enabled"`
	PushgatewayURL string        `koanf:"pushgateway_url" validate:"required_if=Enabled true,omitempty,url"`
	Job            string        `koanf:"job"             validate:"required"`
	Timeout        time.Duration `koanf:"timeout"         validate:"required,min=100ms"`
}

// ClientConfig contains HTTP client settings for the quote source.
type ClientConfig struct {
	Timeout   time.Duration   `koanf:"timeout"    validate:"required,min=100ms"`
	UserAgent string          `koanf:"user_agent"`
	Transport TransportConfig `koanf:"transport"  validate:"required"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// SourceConfig describes the quote API and how to read its responses.
type SourceConfig struct {
	BaseURL      string   `koanf:"base_url"       validate:"required,url"`
	Path         string   `koanf:"path"           validate:"required,startswith=/"`
	Name         string   `koanf:"name"           validate:"required"`
	TextFields   []string `koanf:"text_fields"    validate:"required,min=1,dive,required"`
	AuthorFields []string `koanf:"author_fields"  validate:"required,min=1,dive,required"`
	MaxBodyBytes int64    `koanf:"max_body_bytes" validate:"required,min=1"`
}

// DocumentConfig describes the file to update.
type DocumentConfig struct {
	Path        string `koanf:"path"         validate:"required"`
	MarkerStyle string `koanf:"marker_style" validate:"required,oneof=comment div custom"`
	StartMarker string `koanf:"start_marker" validate:"required_if=MarkerStyle custom"`
	EndMarker   string `koanf:"end_marker"   validate:"required_if=MarkerStyle custom"`
	DryRun      bool   `koanf:"dry_run"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Profile selects configs/{profile}.yaml on top of configs/base.yaml.
	Profile string

	// File is an explicit config file. Unlike profile files it must exist.
	File string

	// Dir overrides the directory holding base and profile files.
	Dir string

	// Overrides are dotted keys applied last, typically from command-line flags.
	Overrides map[string]any
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "readme-quote",
		"app.version":     "dev",
		"app.environment": "local",

		"log.level":            "info",
		"log.format":           "pretty",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/readme-quote.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "readme-quote",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"metrics.enabled":         false,
		"metrics.pushgateway_url": "",
		"metrics.job":             "readme-quote",
		"metrics.timeout":         "5s",

		"client.timeout":                           DefaultClientTimeout.String(),
		"client.user_agent":                        "",
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       DefaultTransportIdleConnTimeout.String(),

		"source.base_url":       "https://api.quotable.io",
		"source.path":           "/random",
		"source.name":           "quote-service",
		"source.text_fields":    []string{"content", "en", "quote", "text", "q"},
		"source.author_fields":  []string{"author", "a"},
		"source.max_body_bytes": DefaultMaxBodyBytes,

		"document.path":         "README.md",
		"document.marker_style": "comment",
		"document.start_marker": "",
		"document.end_marker":   "",
		"document.dry_run":      false,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Overrides (command-line flags)
//  2. Environment variables (QUOTE_ prefix, __ between nested keys)
//  3. Explicit config file (opts.File)
//  4. Profile config file (configs/{profile}.yaml)
//  5. Base config file (configs/base.yaml)
//  6. Default values
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultConfigDir
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if opts.Profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, opts.Profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", opts.Profile, err)
		}
	}

	// 4. Load the explicit config file
	if opts.File != "" {
		err := k.Load(file.Provider(opts.File), yaml.Parser())
		if err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", opts.File, err)
		}
	}

	// 5. Load environment variables with QUOTE_ prefix
	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 6. Apply overrides
	if len(opts.Overrides) > 0 {
		err = k.Load(confmap.Provider(opts.Overrides, "."), nil)
		if err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyValue maps QUOTE_SOURCE__BASE_URL to source.base_url and splits list values.
func envKeyValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, envNestingSeparator, ".")

	if listKeys[key] {
		parts := strings.Split(value, ",")
		items := make([]string, 0, len(parts))

		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}

		return key, items
	}

	return key, value
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
