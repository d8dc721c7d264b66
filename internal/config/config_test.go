package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validServeConfig returns defaults adjusted until serve mode validates.
func validServeConfig() Config {
	cfg := Defaults()
	cfg.PriceFeed.SnapshotURL = "https://feed.example/prices.json"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Mode != "serve" {
		t.Fatalf("default mode = %q, want serve", cfg.Mode)
	}
	if cfg.Catalog.Source != "file" || cfg.Catalog.Path != "catalog.yaml" {
		t.Fatalf("default catalog = %+v", cfg.Catalog)
	}
	if cfg.Optimizer.RecipeCount != 3 || cfg.Optimizer.PrimariesPerRecipe != 3 {
		t.Fatalf("default optimizer = %+v", cfg.Optimizer)
	}
	if cfg.PriceFeed.MemoTTL.Duration != 10*time.Minute {
		t.Fatalf("default memo ttl = %v", cfg.PriceFeed.MemoTTL.Duration)
	}
	if cfg.Archive.Enabled {
		t.Fatal("archiving should default off")
	}
	if !cfg.Server.Enabled || cfg.Server.Port != 8000 {
		t.Fatalf("default server = %+v", cfg.Server)
	}
}

func TestValidateServeMode(t *testing.T) {
	cfg := validServeConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid serve config rejected: %v", err)
	}

	t.Run("price feed required", func(t *testing.T) {
		cfg := validServeConfig()
		cfg.PriceFeed.SnapshotURL = ""
		assertInvalid(t, cfg, "snapshot_url or snapshot_path")
	})

	t.Run("postgres required", func(t *testing.T) {
		cfg := validServeConfig()
		cfg.Postgres.Host = ""
		cfg.Postgres.DSN = ""
		assertInvalid(t, cfg, "postgres: host")
	})

	t.Run("dsn replaces host parameters", func(t *testing.T) {
		cfg := validServeConfig()
		cfg.Postgres.Host = ""
		cfg.Postgres.Database = ""
		cfg.Postgres.DSN = "postgres://u:p@db:5432/tradeup"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("dsn-only postgres rejected: %v", err)
		}
	})
}

func TestValidateAllocateMode(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.Mode = "allocate"
		cfg.PriceFeed.SnapshotPath = "prices.json"
		cfg.Inventory.Path = "inventory.json"
		cfg.Inventory.PrimaryEntries = []string{"ak-redline"}
		return cfg
	}
	validCfg := valid()
	if err := validCfg.Validate(); err != nil {
		t.Fatalf("valid allocate config rejected: %v", err)
	}

	cfg := valid()
	cfg.Inventory.Path = ""
	assertInvalid(t, cfg, "inventory: path")

	cfg = valid()
	cfg.Inventory.PrimaryEntries = nil
	assertInvalid(t, cfg, "primary_entries")
}

func TestValidateImportMode(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "import"
	cfg.Inventory.Path = "inventory.json"
	// Import mode needs neither price feed nor primary entries.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid import config rejected: %v", err)
	}

	cfg.Inventory.Path = ""
	assertInvalid(t, cfg, "inventory: path")
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "replay" }, "unknown mode"},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, "unknown log_level"},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "etcd" }, "unknown source"},
		{"catalog file without path", func(c *Config) { c.Catalog.Path = "" }, "catalog: path"},
		{"bad server port", func(c *Config) { c.Server.Port = 70000 }, "server: port"},
		{"zero recipes", func(c *Config) { c.Optimizer.RecipeCount = 0 }, "recipe_count"},
		{"too many primaries", func(c *Config) { c.Optimizer.PrimariesPerRecipe = 11 }, "primaries_per_recipe"},
		{"telegram half configured", func(c *Config) { c.Notify.TelegramToken = "tok" }, "telegram"},
		{"archive without bucket", func(c *Config) {
			c.Archive.Enabled = true
			c.S3.Bucket = ""
		}, "s3: bucket"},
		{"archive without retention", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.RetentionDays = 0
		}, "retention_days"},
		{"pool bounds inverted", func(c *Config) {
			c.Postgres.PoolMinConns = 20
			c.Postgres.PoolMaxConns = 5
		}, "pool_min_conns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServeConfig()
			tt.mutate(&cfg)
			assertInvalid(t, cfg, tt.want)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validServeConfig()
	cfg.Mode = "replay"
	cfg.Redis.Addr = ""
	cfg.Optimizer.RecipeCount = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid config accepted")
	}
	for _, fragment := range []string{"unknown mode", "redis: addr", "recipe_count"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("combined error missing %q: %v", fragment, err)
		}
	}
}

func assertInvalid(t *testing.T, cfg Config, fragment string) {
	t.Helper()
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("config accepted, want error mentioning %q", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("err = %v, want it to mention %q", err, fragment)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
mode = "allocate"
log_level = "debug"

[inventory]
path = "inventory.json"
primary_entries = ["ak-redline", "mp9-dart"]

[price_feed]
snapshot_path = "prices.json"
memo_ttl = "30s"

[optimizer]
recipe_count = 5
seed = 42
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TRADEUP_OPTIMIZER_RECIPE_COUNT", "7")
	t.Setenv("TRADEUP_SERVER_API_KEY", "sekrit")
	t.Setenv("TRADEUP_INVENTORY_PRIMARY_ENTRIES", "a, b ,c")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "allocate" || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: mode=%q level=%q", cfg.Mode, cfg.LogLevel)
	}
	if cfg.PriceFeed.MemoTTL.Duration != 30*time.Second {
		t.Fatalf("memo_ttl = %v, want 30s", cfg.PriceFeed.MemoTTL.Duration)
	}
	if cfg.Optimizer.Seed != 42 {
		t.Fatalf("seed = %d, want 42", cfg.Optimizer.Seed)
	}
	// Environment wins over the file, and untouched fields keep defaults.
	if cfg.Optimizer.RecipeCount != 7 {
		t.Fatalf("recipe_count = %d, want env override 7", cfg.Optimizer.RecipeCount)
	}
	if cfg.Server.APIKey != "sekrit" {
		t.Fatalf("api_key = %q, want env value", cfg.Server.APIKey)
	}
	if got := cfg.Inventory.PrimaryEntries; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("primary_entries = %v, want trimmed [a b c]", got)
	}
	if cfg.Postgres.Port != 5432 {
		t.Fatalf("default postgres port lost: %d", cfg.Postgres.Port)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}
}
