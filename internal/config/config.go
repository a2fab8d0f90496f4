// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package config loads the server configuration.
//
// Sources are layered, later wins: Defaults, the YAML file named by
// --config (or DefaultFile when present), GUILDHALL_ environment
// variables, then flags set explicitly on the command line. Environment keys use "__" between levels, so
// GUILDHALL_HTTP__CORS_ORIGINS sets http.cors_origins.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// CodeInvalid is returned by Load and Validate.
const CodeInvalid = "CONFIG_INVALID"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GUILDHALL_"

// FlagConfigFile names the flag holding the YAML file path.
const FlagConfigFile = "config"

// Config is the complete server configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Mail     MailConfig     `koanf:"mail"`
}

// DatabaseConfig configures the storage handle.
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	ConnectRetries uint64        `koanf:"connect_retries"`
	ConnectBackoff time.Duration `koanf:"connect_backoff"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
	// CORSOrigins are glob patterns matched against the Origin header.
	CORSOrigins        []string      `koanf:"cors_origins"`
	EnforcePermissions bool          `koanf:"enforce_permissions"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig configures the metrics and health listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures slog.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Mail backends.
const (
	MailBackendLog = "log"
	MailBackendSES = "ses"
)

// MailConfig configures password reset delivery.
type MailConfig struct {
	Backend         string `koanf:"backend"`
	From            string `koanf:"from"`
	Region          string `koanf:"region"`
	SiteURL         string `koanf:"site_url"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			ConnectRetries: 5,
			ConnectBackoff: 500 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Addr:               "127.0.0.1:8080",
			EnforcePermissions: true,
			ShutdownTimeout:    10 * time.Second,
		},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		Log:     LogConfig{Format: "json", Level: "info"},
		Mail:    MailConfig{Backend: MailBackendLog},
	}
}

// RegisterFlags adds a flag for every key to fs, defaulted from Defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagConfigFile, "", "YAML config file path")

	fs.String("database.url", d.Database.URL, "PostgreSQL connection URL (falls back to DATABASE_URL)")
	fs.Uint64("database.connect_retries", d.Database.ConnectRetries, "connection attempts at startup")
	fs.Duration("database.connect_backoff", d.Database.ConnectBackoff, "base backoff between connection attempts")

	fs.String("http.addr", d.HTTP.Addr, "API listen address")
	fs.StringSlice("http.cors_origins", d.HTTP.CORSOrigins, "allowed CORS origin patterns")
	fs.Bool("http.enforce_permissions", d.HTTP.EnforcePermissions, "require leader or superuser permission on administrative routes")
	fs.Duration("http.shutdown_timeout", d.HTTP.ShutdownTimeout, "grace period for in-flight requests on shutdown")

	fs.String("metrics.addr", d.Metrics.Addr, "metrics/health listen address (empty = disabled)")

	fs.String("log.format", d.Log.Format, "log format (json or text)")
	fs.String("log.level", d.Log.Level, "log level (debug, info, warn, error)")

	fs.String("mail.backend", d.Mail.Backend, "mail backend (log or ses)")
	fs.String("mail.from", d.Mail.From, "From address of password reset mails")
	fs.String("mail.region", d.Mail.Region, "AWS region for SES")
	fs.String("mail.site_url", d.Mail.SiteURL, "frontend URL placed in password reset mails")
}

// Load builds the configuration from fs, which must have been populated by
// RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, err := fs.GetString(FlagConfigFile)
	if err != nil {
		return nil, oops.Code(CodeInvalid).Wrap(err)
	}
	if path == "" {
		path = defaultFileIfPresent()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "environment").Wrap(err)
	}

	// Unchanged flags only fill keys no earlier layer set.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "flags").Wrap(err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code(CodeInvalid).Wrap(err)
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code(CodeInvalid).Errorf("database.url or DATABASE_URL is required")
	}
	if c.HTTP.Addr == "" {
		return oops.Code(CodeInvalid).Errorf("http.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code(CodeInvalid).Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Mail.Backend {
	case MailBackendLog:
	case MailBackendSES:
		if c.Mail.From == "" {
			return oops.Code(CodeInvalid).Errorf("mail.from is required for the ses backend")
		}
	default:
		return oops.Code(CodeInvalid).Errorf("mail.backend must be 'log' or 'ses', got %q", c.Mail.Backend)
	}
	return nil
}
