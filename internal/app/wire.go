package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	s3blob "github.com/skincraft/tradeupbot/internal/blob/s3"
	"github.com/skincraft/tradeupbot/internal/cache/redis"
	"github.com/skincraft/tradeupbot/internal/catalog"
	"github.com/skincraft/tradeupbot/internal/config"
	"github.com/skincraft/tradeupbot/internal/domain"
	"github.com/skincraft/tradeupbot/internal/engine"
	"github.com/skincraft/tradeupbot/internal/notify"
	"github.com/skincraft/tradeupbot/internal/pricing"
	"github.com/skincraft/tradeupbot/internal/service"
	"github.com/skincraft/tradeupbot/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Catalog domain.Catalog

	// Stores (nil in one-shot modes without Postgres)
	CatalogStore domain.CatalogStore
	PlanStore    domain.PlanStore

	// Price feed
	ListingCache domain.ListingCache
	RefineQueue  domain.RefineQueue

	// Blob storage (nil unless archiving is enabled)
	BlobWriter domain.BlobWriter
	BlobReader domain.BlobReader
	Archiver   domain.PlanArchiver

	// Engine
	Simulator *engine.Simulator
	Allocator *engine.Allocator

	// Services
	Tradeups  *service.TradeupService
	Inventory *service.InventoryService
	Archive   *service.ArchiveService
}

// needsPostgres returns true when a database connection is required: serve
// mode persists plans, and any mode may source the catalog from Postgres.
func needsPostgres(cfg *config.Config) bool {
	return cfg.Mode == "serve" || cfg.Catalog.Source == "postgres"
}

// needsRedis returns true for modes that use the shared listing cache and the
// refinement queue. One-shot modes run on an in-memory feed instead.
func needsRedis(cfg *config.Config) bool {
	return cfg.Mode == "serve"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	if needsPostgres(cfg) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.CatalogStore = postgres.NewCatalogStore(pool)
		deps.PlanStore = postgres.NewPlanStore(pool)
	}

	// --- Catalog ---
	switch cfg.Catalog.Source {
	case "postgres":
		entries, err := deps.CatalogStore.ListEntries(ctx)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: load catalog from postgres: %w", err)
		}
		deps.Catalog = catalog.NewIndex(entries)
	default: // "file"
		idx, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: load catalog file: %w", err)
		}
		deps.Catalog = idx
	}
	logger.InfoContext(ctx, "catalog loaded",
		slog.String("source", cfg.Catalog.Source),
		slog.Int("entries", len(deps.Catalog.All())),
		slog.Int("max_tier", deps.Catalog.MaxTier()),
	)

	// --- Listing cache + refinement queue ---
	if needsRedis(cfg) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.ListingCache = redis.NewListingCache(redisClient)
		deps.RefineQueue = redis.NewRefineQueue(redisClient)
	} else {
		deps.ListingCache = pricing.NewStaticFeed(nil)
	}

	// --- S3 blob storage + plan archiver ---
	if cfg.Archive.Enabled && deps.PlanStore != nil {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.BlobReader = s3blob.NewReader(s3Client)
		deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.PlanStore, logger)

		retention := time.Duration(cfg.Archive.RetentionDays) * 24 * time.Hour
		deps.Archive = service.NewArchiveService(deps.Archiver, deps.PlanStore, retention, logger)
	}

	// --- Engine ---
	resolver := pricing.NewResolver(deps.ListingCache)
	prices := service.NewMemoPriceSource(resolver, cfg.PriceFeed.MemoTTL.Duration)
	deps.Simulator = engine.NewSimulator(deps.Catalog, prices)

	seed := cfg.Optimizer.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	deps.Allocator = engine.NewAllocator(deps.Simulator, rng, logger)

	// --- Notifications ---
	var alerter service.PlanAlerter
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		alerter = notify.NewPlanAlerter(senders, cfg.Notify.MinROI, logger)
	}

	// --- Services ---
	deps.Tradeups = service.NewTradeupService(deps.Simulator, deps.Allocator, deps.PlanStore, alerter, logger)
	deps.Inventory = service.NewInventoryService(deps.Catalog, deps.RefineQueue, logger)

	return deps, cleanup, nil
}
