package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// CatalogStore implements domain.CatalogStore using PostgreSQL.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore creates a new CatalogStore backed by the given connection pool.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

var _ domain.CatalogStore = (*CatalogStore)(nil)

// UpsertEntries inserts or updates catalog entries in a single batch operation.
func (s *CatalogStore) UpsertEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO catalog_entries (
			id, name, tier, min_float, max_float, collections, stattrak, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			tier        = EXCLUDED.tier,
			min_float   = EXCLUDED.min_float,
			max_float   = EXCLUDED.max_float,
			collections = EXCLUDED.collections,
			stattrak    = EXCLUDED.stattrak,
			updated_at  = NOW()`

	for _, e := range entries {
		batch.Queue(query,
			e.ID, e.Name, e.Tier,
			e.MinFloat, e.MaxFloat,
			e.Collections, e.StatTrak,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert catalog entry batch item %d: %w", i, err)
		}
	}
	return nil
}

// ListEntries returns every catalog entry ordered by tier, then name.
func (s *CatalogStore) ListEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	const query = `
		SELECT id, name, tier, min_float, max_float, collections, stattrak
		FROM catalog_entries
		ORDER BY tier, name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Tier,
			&e.MinFloat, &e.MaxFloat,
			&e.Collections, &e.StatTrak,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate catalog entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of catalog entries.
func (s *CatalogStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_entries`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count catalog entries: %w", err)
	}
	return n, nil
}
