package domain

import (
	"context"
	"time"
)

// CatalogStore persists the item catalog for deployments that sync it into
// Postgres instead of shipping a file.
type CatalogStore interface {
	UpsertEntries(ctx context.Context, entries []CatalogEntry) error
	ListEntries(ctx context.Context) ([]CatalogEntry, error)
	Count(ctx context.Context) (int64, error)
}

// PlanStore persists evaluated allocation plans for history and archival.
type PlanStore interface {
	Save(ctx context.Context, plan AllocationPlan) error
	GetByID(ctx context.Context, id string) (AllocationPlan, error)
	ListRecent(ctx context.Context, limit int) ([]AllocationPlan, error)
	// ListBefore returns plans created strictly before the cutoff, for the
	// archiver.
	ListBefore(ctx context.Context, before time.Time) ([]AllocationPlan, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
