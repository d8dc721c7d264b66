package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TRADEUP_* environment variable overrides, and
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

// applyEnvOverrides reads well-known TRADEUP_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Catalog ──
	setStr(&cfg.Catalog.Source, "TRADEUP_CATALOG_SOURCE")
	setStr(&cfg.Catalog.Path, "TRADEUP_CATALOG_PATH")

	setStr(&cfg.Inventory.Path, "TRADEUP_INVENTORY_PATH")
	setStringSlice(&cfg.Inventory.PrimaryEntries, "TRADEUP_INVENTORY_PRIMARY_ENTRIES")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "TRADEUP_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "TRADEUP_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "TRADEUP_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "TRADEUP_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "TRADEUP_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "TRADEUP_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "TRADEUP_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "TRADEUP_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "TRADEUP_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "TRADEUP_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "TRADEUP_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TRADEUP_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TRADEUP_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "TRADEUP_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "TRADEUP_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "TRADEUP_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "TRADEUP_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "TRADEUP_S3_REGION")
	setStr(&cfg.S3.Bucket, "TRADEUP_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "TRADEUP_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "TRADEUP_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "TRADEUP_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "TRADEUP_S3_FORCE_PATH_STYLE")

	// ── Price feed ──
	setStr(&cfg.PriceFeed.SnapshotURL, "TRADEUP_PRICE_FEED_SNAPSHOT_URL")
	setStr(&cfg.PriceFeed.SnapshotPath, "TRADEUP_PRICE_FEED_SNAPSHOT_PATH")
	setStr(&cfg.PriceFeed.WsHost, "TRADEUP_PRICE_FEED_WS_HOST")
	setDuration(&cfg.PriceFeed.MemoTTL, "TRADEUP_PRICE_FEED_MEMO_TTL")

	// ── Optimizer ──
	setInt(&cfg.Optimizer.RecipeCount, "TRADEUP_OPTIMIZER_RECIPE_COUNT")
	setInt(&cfg.Optimizer.PrimariesPerRecipe, "TRADEUP_OPTIMIZER_PRIMARIES_PER_RECIPE")
	setInt64(&cfg.Optimizer.Seed, "TRADEUP_OPTIMIZER_SEED")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "TRADEUP_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "TRADEUP_ARCHIVE_RETENTION_DAYS")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "TRADEUP_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "TRADEUP_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "TRADEUP_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "TRADEUP_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "TRADEUP_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "TRADEUP_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "TRADEUP_NOTIFY_DISCORD_WEBHOOK_URL")
	setFloat64(&cfg.Notify.MinROI, "TRADEUP_NOTIFY_MIN_ROI")

	// ── Top-level ──
	setStr(&cfg.Mode, "TRADEUP_MODE")
	setStr(&cfg.LogLevel, "TRADEUP_LOG_LEVEL")
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

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
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

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
