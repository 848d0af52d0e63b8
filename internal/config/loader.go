package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies EVENTPULSE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known EVENTPULSE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject credentials and run parameters at deploy
// time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "EVENTPULSE_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "EVENTPULSE_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.DataHost, "EVENTPULSE_POLYMARKET_DATA_HOST")
	setStr(&cfg.Polymarket.EventURL, "EVENTPULSE_POLYMARKET_EVENT_URL")

	// ── Wikipedia ──
	setStr(&cfg.Wikipedia.RestHost, "EVENTPULSE_WIKIPEDIA_REST_HOST")
	setStr(&cfg.Wikipedia.ApiHost, "EVENTPULSE_WIKIPEDIA_API_HOST")
	setStr(&cfg.Wikipedia.UserAgent, "EVENTPULSE_WIKIPEDIA_USER_AGENT")
	setStr(&cfg.Wikipedia.Article, "EVENTPULSE_WIKIPEDIA_ARTICLE")

	// ── Fetch ──
	setStr(&cfg.Fetch.StartDate, "EVENTPULSE_FETCH_START_DATE")
	setStr(&cfg.Fetch.EndDate, "EVENTPULSE_FETCH_END_DATE")
	setInt(&cfg.Fetch.FidelityMinutes, "EVENTPULSE_FETCH_FIDELITY_MINUTES")
	setInt(&cfg.Fetch.BucketSeconds, "EVENTPULSE_FETCH_BUCKET_SECONDS")
	setBool(&cfg.Fetch.ExcludePlaceholders, "EVENTPULSE_FETCH_EXCLUDE_PLACEHOLDERS")
	setDuration(&cfg.Fetch.RequestTimeout, "EVENTPULSE_FETCH_REQUEST_TIMEOUT")
	setDuration(&cfg.Fetch.TradePageDelay, "EVENTPULSE_FETCH_TRADE_PAGE_DELAY")

	// ── Output ──
	setStr(&cfg.Output.Dir, "EVENTPULSE_OUTPUT_DIR")
	setStr(&cfg.Output.Format, "EVENTPULSE_OUTPUT_FORMAT")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "EVENTPULSE_ARCHIVE_ENABLED")
	setStr(&cfg.Archive.Endpoint, "EVENTPULSE_ARCHIVE_ENDPOINT")
	setStr(&cfg.Archive.Region, "EVENTPULSE_ARCHIVE_REGION")
	setStr(&cfg.Archive.Bucket, "EVENTPULSE_ARCHIVE_BUCKET")
	setStr(&cfg.Archive.AccessKey, "EVENTPULSE_ARCHIVE_ACCESS_KEY")
	setStr(&cfg.Archive.SecretKey, "EVENTPULSE_ARCHIVE_SECRET_KEY")
	setBool(&cfg.Archive.UseSSL, "EVENTPULSE_ARCHIVE_USE_SSL")
	setBool(&cfg.Archive.ForcePathStyle, "EVENTPULSE_ARCHIVE_FORCE_PATH_STYLE")
	setStr(&cfg.Archive.Prefix, "EVENTPULSE_ARCHIVE_PREFIX")

	// ── Logging ──
	setStr(&cfg.Logging.Format, "EVENTPULSE_LOGGING_FORMAT")
	setStr(&cfg.Logging.Output, "EVENTPULSE_LOGGING_OUTPUT")
	setStr(&cfg.Logging.FilePath, "EVENTPULSE_LOGGING_FILE_PATH")
	setInt(&cfg.Logging.MaxSizeMB, "EVENTPULSE_LOGGING_MAX_SIZE_MB")
	setInt(&cfg.Logging.MaxBackups, "EVENTPULSE_LOGGING_MAX_BACKUPS")
	setInt(&cfg.Logging.MaxAgeDays, "EVENTPULSE_LOGGING_MAX_AGE_DAYS")
	setBool(&cfg.Logging.Compress, "EVENTPULSE_LOGGING_COMPRESS")

	// ── Top-level ──
	setStr(&cfg.Mode, "EVENTPULSE_MODE")
	setStr(&cfg.LogLevel, "EVENTPULSE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
