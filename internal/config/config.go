// Package config defines the top-level configuration for the eventpulse
// fetcher and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"eventpulse/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by EVENTPULSE_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Wikipedia  WikipediaConfig  `toml:"wikipedia"`
	Fetch      FetchConfig      `toml:"fetch"`
	Output     OutputConfig     `toml:"output"`
	Archive    ArchiveConfig    `toml:"archive"`
	Logging    LoggingConfig    `toml:"logging"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Polymarket API endpoints and the event to fetch.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
	DataHost  string `toml:"data_host"`
	EventURL  string `toml:"event_url"`
}

// WikipediaConfig holds Wikimedia API endpoints and the article to fetch.
type WikipediaConfig struct {
	RestHost  string `toml:"rest_host"`
	ApiHost   string `toml:"api_host"`
	UserAgent string `toml:"user_agent"`
	Article   string `toml:"article"`
}

// FetchConfig holds the shared fetch window and series parameters.
type FetchConfig struct {
	// StartDate / EndDate bound the fetch window. For wiki runs both are
	// required; for market runs they override the range derived from the
	// event's own market dates. Accepts full timestamps or plain dates.
	StartDate string `toml:"start_date"`
	EndDate   string `toml:"end_date"`

	FidelityMinutes     int      `toml:"fidelity_minutes"`
	BucketSeconds       int      `toml:"bucket_seconds"`
	ExcludePlaceholders bool     `toml:"exclude_placeholders"`
	RequestTimeout      duration `toml:"request_timeout"`
	TradePageDelay      duration `toml:"trade_page_delay"`
}

// OutputConfig holds local export parameters.
type OutputConfig struct {
	Dir string `toml:"dir"`
	// Format selects the export encoding: "json", "csv", or "both".
	Format string `toml:"format"`
}

// ArchiveConfig holds S3-compatible object storage parameters for mirroring
// exported files.
type ArchiveConfig struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
}

// LoggingConfig holds log output and rotation parameters.
type LoggingConfig struct {
	// Format selects the handler: "json" or "text".
	Format string `toml:"format"`
	// Output selects the destination: "stdout", "stderr", or "file".
	Output     string `toml:"output"`
	FilePath   string `toml:"file_path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			ClobHost:  "https://clob.polymarket.com",
			DataHost:  "https://data-api.polymarket.com",
		},
		Wikipedia: WikipediaConfig{
			RestHost:  "https://wikimedia.org/api/rest_v1",
			ApiHost:   "https://en.wikipedia.org",
			UserAgent: "eventpulse/1.0 (market attention research)",
		},
		Fetch: FetchConfig{
			FidelityMinutes:     60,
			BucketSeconds:       3600,
			ExcludePlaceholders: true,
			RequestTimeout:      duration{10 * time.Second},
			TradePageDelay:      duration{1 * time.Second},
		},
		Output: OutputConfig{
			Dir:    "data",
			Format: "json",
		},
		Archive: ArchiveConfig{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "eventpulse-data",
			UseSSL:         false,
			ForcePathStyle: true,
			Prefix:         "eventpulse",
		},
		Logging: LoggingConfig{
			Format:     "json",
			Output:     "stdout",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Mode:     "market",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"market": true,
	"wiki":   true,
	"full":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validFormats enumerates the accepted values for OutputConfig.Format.
var validFormats = map[string]bool{
	"json": true,
	"csv":  true,
	"both": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)

	// Mode
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: market, wiki, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket settings, needed for market and full runs.
	if mode == "market" || mode == "full" {
		if c.Polymarket.GammaHost == "" {
			errs = append(errs, "polymarket: gamma_host must not be empty")
		}
		if c.Polymarket.ClobHost == "" {
			errs = append(errs, "polymarket: clob_host must not be empty")
		}
		if c.Polymarket.DataHost == "" {
			errs = append(errs, "polymarket: data_host must not be empty")
		}
		if c.Polymarket.EventURL == "" {
			errs = append(errs, "polymarket: event_url is required for mode "+mode)
		}
	}

	// Wikipedia settings, needed for wiki and full runs. The Wikimedia APIs
	// reject requests without a descriptive User-Agent.
	if mode == "wiki" || mode == "full" {
		if c.Wikipedia.RestHost == "" {
			errs = append(errs, "wikipedia: rest_host must not be empty")
		}
		if c.Wikipedia.ApiHost == "" {
			errs = append(errs, "wikipedia: api_host must not be empty")
		}
		if c.Wikipedia.UserAgent == "" {
			errs = append(errs, "wikipedia: user_agent must not be empty")
		}
		if c.Wikipedia.Article == "" {
			errs = append(errs, "wikipedia: article is required for mode "+mode)
		}
		if c.Fetch.StartDate == "" {
			errs = append(errs, "fetch: start_date is required for mode "+mode)
		}
		if c.Fetch.EndDate == "" {
			errs = append(errs, "fetch: end_date is required for mode "+mode)
		}
	}

	// Whenever both window bounds are present they must parse and be ordered,
	// regardless of mode.
	var start, end time.Time
	if c.Fetch.StartDate != "" {
		t, err := domain.ParseDate(c.Fetch.StartDate)
		if err != nil {
			errs = append(errs, fmt.Sprintf("fetch: start_date: %v", err))
		} else {
			start = t
		}
	}
	if c.Fetch.EndDate != "" {
		t, err := domain.ParseDate(c.Fetch.EndDate)
		if err != nil {
			errs = append(errs, fmt.Sprintf("fetch: end_date: %v", err))
		} else {
			end = t
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, "fetch: end_date must not precede start_date")
	}

	if c.Fetch.FidelityMinutes < 1 {
		errs = append(errs, "fetch: fidelity_minutes must be >= 1")
	}
	if c.Fetch.BucketSeconds < 1 {
		errs = append(errs, "fetch: bucket_seconds must be >= 1")
	}
	if c.Fetch.RequestTimeout.Duration <= 0 {
		errs = append(errs, "fetch: request_timeout must be > 0")
	}
	if c.Fetch.TradePageDelay.Duration < 0 {
		errs = append(errs, "fetch: trade_page_delay must be >= 0")
	}

	// Output
	if c.Output.Dir == "" {
		errs = append(errs, "output: dir must not be empty")
	}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Sprintf("unknown output format %q (valid: json, csv, both)", c.Output.Format))
	}

	// Archive settings are only checked when enabled.
	if c.Archive.Enabled {
		if c.Archive.Bucket == "" {
			errs = append(errs, "archive: bucket must not be empty when enabled")
		}
		if c.Archive.Region == "" {
			errs = append(errs, "archive: region must not be empty when enabled")
		}
	}

	// Logging
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging: unknown format %q (valid: json, text)", c.Logging.Format))
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	case "file":
		if c.Logging.FilePath == "" {
			errs = append(errs, "logging: file_path is required when output is file")
		}
		if c.Logging.MaxSizeMB < 1 {
			errs = append(errs, "logging: max_size_mb must be >= 1")
		}
	default:
		errs = append(errs, fmt.Sprintf("logging: unknown output %q (valid: stdout, stderr, file)", c.Logging.Output))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
