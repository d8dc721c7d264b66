package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// PlanStore implements domain.PlanStore using PostgreSQL. Recipes and their
// cached evaluations are stored as a JSONB document alongside the plan's
// aggregate columns.
type PlanStore struct {
	pool *pgxpool.Pool
}

// NewPlanStore creates a new PlanStore backed by the given connection pool.
func NewPlanStore(pool *pgxpool.Pool) *PlanStore {
	return &PlanStore{pool: pool}
}

var _ domain.PlanStore = (*PlanStore)(nil)

// Save inserts or updates an allocation plan.
func (s *PlanStore) Save(ctx context.Context, plan domain.AllocationPlan) error {
	recipesJSON, err := json.Marshal(plan.Recipes)
	if err != nil {
		return fmt.Errorf("postgres: marshal plan recipes: %w", err)
	}

	const query = `
		INSERT INTO allocation_plans (
			id, recipes, total_ev, total_cost, swaps, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (id) DO UPDATE SET
			recipes    = EXCLUDED.recipes,
			total_ev   = EXCLUDED.total_ev,
			total_cost = EXCLUDED.total_cost,
			swaps      = EXCLUDED.swaps`

	_, err = s.pool.Exec(ctx, query,
		plan.ID, recipesJSON,
		plan.TotalEV, plan.TotalCost,
		plan.Swaps, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save plan %s: %w", plan.ID, err)
	}
	return nil
}

// scanPlan scans a single plan row into a domain.AllocationPlan.
func scanPlan(row pgx.Row) (domain.AllocationPlan, error) {
	var p domain.AllocationPlan
	var recipesJSON []byte
	err := row.Scan(
		&p.ID, &recipesJSON,
		&p.TotalEV, &p.TotalCost,
		&p.Swaps, &p.CreatedAt,
	)
	if err != nil {
		return domain.AllocationPlan{}, err
	}
	if err := json.Unmarshal(recipesJSON, &p.Recipes); err != nil {
		return domain.AllocationPlan{}, fmt.Errorf("unmarshal plan recipes: %w", err)
	}
	return p, nil
}

const planCols = `id, recipes, total_ev, total_cost, swaps, created_at`

// GetByID retrieves a plan by its primary key.
func (s *PlanStore) GetByID(ctx context.Context, id string) (domain.AllocationPlan, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+planCols+` FROM allocation_plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.AllocationPlan{}, domain.ErrNotFound
		}
		return domain.AllocationPlan{}, fmt.Errorf("postgres: get plan %s: %w", id, err)
	}
	return p, nil
}

// ListRecent returns the most recently created plans, newest first.
func (s *PlanStore) ListRecent(ctx context.Context, limit int) ([]domain.AllocationPlan, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+planCols+` FROM allocation_plans ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent plans: %w", err)
	}
	defer rows.Close()
	return collectPlans(rows)
}

// ListBefore returns plans created strictly before the cutoff, oldest first.
func (s *PlanStore) ListBefore(ctx context.Context, before time.Time) ([]domain.AllocationPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+planCols+` FROM allocation_plans WHERE created_at < $1 ORDER BY created_at`, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list plans before %s: %w", before.Format(time.RFC3339), err)
	}
	defer rows.Close()
	return collectPlans(rows)
}

// DeleteBefore removes plans created strictly before the cutoff and returns
// the number of deleted rows.
func (s *PlanStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM allocation_plans WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete plans before %s: %w", before.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

func collectPlans(rows pgx.Rows) ([]domain.AllocationPlan, error) {
	var plans []domain.AllocationPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate plans: %w", err)
	}
	return plans, nil
}
