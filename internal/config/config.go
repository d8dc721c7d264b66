// Package config defines the top-level configuration for the trade-up
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TRADEUP_* environment
// variables.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Inventory InventoryConfig `toml:"inventory"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	PriceFeed PriceFeedConfig `toml:"price_feed"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Archive   ArchiveConfig   `toml:"archive"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// CatalogConfig selects where the item catalog is loaded from.
type CatalogConfig struct {
	// Source is "file" (YAML) or "postgres".
	Source string `toml:"source"`
	Path   string `toml:"path"`
}

// InventoryConfig points one-shot runs at a local inventory payload.
type InventoryConfig struct {
	// Path is the JSON inventory payload read by the allocate and import
	// modes.
	Path string `toml:"path"`
	// PrimaryEntries name the catalog entry ids eligible for primary slots
	// in allocate mode.
	PrimaryEntries []string `toml:"primary_entries"`
}

// PostgresConfig holds PostgreSQL connection parameters for the catalog and
// plan stores.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the listing price cache
// and the float-refinement queue.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for plan archives.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PriceFeedConfig holds the price feed endpoints.
type PriceFeedConfig struct {
	// SnapshotURL serves the full listing-name -> price map as JSON.
	SnapshotURL string `toml:"snapshot_url"`
	// SnapshotPath loads the map from a local file instead (one-shot runs).
	SnapshotPath string `toml:"snapshot_path"`
	// WsHost streams live listing price updates; empty disables the ticker.
	WsHost string `toml:"ws_host"`
	// MemoTTL bounds the in-process resolved-price memoization cache.
	MemoTTL duration `toml:"memo_ttl"`
}

// OptimizerConfig holds allocation search parameters.
type OptimizerConfig struct {
	RecipeCount        int `toml:"recipe_count"`
	PrimariesPerRecipe int `toml:"primaries_per_recipe"`
	// Seed fixes the random source when non-zero; 0 means time-seeded.
	Seed int64 `toml:"seed"`
}

// ArchiveConfig holds plan archival parameters.
type ArchiveConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// APIKey guards the API when set; empty disables authentication.
	APIKey string `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials and the ROI threshold
// above which a plan triggers an alert.
type NotifyConfig struct {
	TelegramToken     string  `toml:"telegram_token"`
	TelegramChatID    string  `toml:"telegram_chat_id"`
	DiscordWebhookURL string  `toml:"discord_webhook_url"`
	MinROI            float64 `toml:"min_roi"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
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
func Defaults() Config {
	return Config{
		Catalog: CatalogConfig{
			Source: "file",
			Path:   "catalog.yaml",
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "tradeup",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "tradeup-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		PriceFeed: PriceFeedConfig{
			MemoTTL: duration{10 * time.Minute},
		},
		Optimizer: OptimizerConfig{
			RecipeCount:        3,
			PrimariesPerRecipe: 3,
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			RetentionDays: 90,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			MinROI: 0.10,
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve":    true,
	"allocate": true,
	"import":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, allocate, import)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Catalog
	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Path == "" {
			errs = append(errs, "catalog: path must be set when source is \"file\"")
		}
	case "postgres":
		// connection checked below
	default:
		errs = append(errs, fmt.Sprintf("catalog: unknown source %q (valid: file, postgres)", c.Catalog.Source))
	}

	// Postgres is required when the catalog or plan history uses it.
	needsPostgres := c.Catalog.Source == "postgres" || c.Mode == "serve"
	if needsPostgres && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3 settings only matter while archiving is on.
	if c.Archive.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when archiving is enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when archiving is enabled")
		}
		if c.Archive.RetentionDays < 1 {
			errs = append(errs, "archive: retention_days must be >= 1")
		}
	}

	// Serve and allocate modes need at least one price feed source.
	if c.Mode != "import" {
		if c.PriceFeed.SnapshotURL == "" && c.PriceFeed.SnapshotPath == "" {
			errs = append(errs, "price_feed: either snapshot_url or snapshot_path must be set")
		}
	}

	// One-shot modes read the inventory from disk.
	if c.Mode == "allocate" || c.Mode == "import" {
		if c.Inventory.Path == "" {
			errs = append(errs, fmt.Sprintf("inventory: path must be set in %s mode", c.Mode))
		}
	}
	if c.Mode == "allocate" && len(c.Inventory.PrimaryEntries) == 0 {
		errs = append(errs, "inventory: primary_entries must be set in allocate mode")
	}

	// Optimizer
	if c.Optimizer.RecipeCount < 1 {
		errs = append(errs, "optimizer: recipe_count must be >= 1")
	}
	if c.Optimizer.PrimariesPerRecipe < 1 || c.Optimizer.PrimariesPerRecipe > 10 {
		errs = append(errs, fmt.Sprintf("optimizer: primaries_per_recipe must be 1-10, got %d", c.Optimizer.PrimariesPerRecipe))
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Telegram needs both fields together, or neither.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
