// Package service orchestrates the trade-up engine: recipe evaluation,
// inventory allocation, plan persistence, alerting, and archival.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skincraft/tradeupbot/internal/domain"
	"github.com/skincraft/tradeupbot/internal/engine"
)

// PlanAlerter reports freshly computed plans to operators. Satisfied by
// notify.PlanAlerter.
type PlanAlerter interface {
	PlanFound(ctx context.Context, plan domain.AllocationPlan) error
}

// TradeupService exposes the engine's evaluate and allocate operations and
// handles the bookkeeping around them. The plan store and alerter are
// optional; one-shot CLI runs pass nil for both.
type TradeupService struct {
	sim     *engine.Simulator
	alloc   *engine.Allocator
	plans   domain.PlanStore
	alerter PlanAlerter
	logger  *slog.Logger
}

// NewTradeupService creates a TradeupService.
func NewTradeupService(
	sim *engine.Simulator,
	alloc *engine.Allocator,
	plans domain.PlanStore,
	alerter PlanAlerter,
	logger *slog.Logger,
) *TradeupService {
	return &TradeupService{
		sim:     sim,
		alloc:   alloc,
		plans:   plans,
		alerter: alerter,
		logger:  logger.With(slog.String("component", "tradeup_service")),
	}
}

// Evaluate computes the outcome distribution and economics of one fixed
// recipe. Validation failures pass through untranslated so callers can map
// them to user-facing messages.
func (s *TradeupService) Evaluate(ctx context.Context, items []domain.TradeItem) (domain.RecipeResult, error) {
	return s.sim.Evaluate(ctx, items)
}

// Allocate partitions this inventory into recipes on a background goroutine,
// persists the resulting plan, and reports it to the alerter. Cancelling ctx
// stops the search early and still returns the best plan found.
func (s *TradeupService) Allocate(ctx context.Context, primary, filler []domain.TradeItem, recipeCount, primariesPerRecipe int) (domain.AllocationPlan, error) {
	var plan domain.AllocationPlan

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = s.alloc.Allocate(gctx, primary, filler, recipeCount, primariesPerRecipe)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AllocationPlan{}, err
	}

	s.logger.InfoContext(ctx, "allocation complete",
		slog.String("plan_id", plan.ID),
		slog.Int("recipes", len(plan.Recipes)),
		slog.Float64("total_ev", plan.TotalEV),
		slog.Float64("total_cost", plan.TotalCost),
		slog.Int("swaps", plan.Swaps),
	)

	if s.plans != nil {
		if err := s.plans.Save(ctx, plan); err != nil {
			return domain.AllocationPlan{}, fmt.Errorf("tradeup_service: save plan: %w", err)
		}
	}

	if s.alerter != nil {
		if err := s.alerter.PlanFound(ctx, plan); err != nil {
			// Non-fatal: the plan itself is computed and saved.
			s.logger.WarnContext(ctx, "plan alert failed",
				slog.String("plan_id", plan.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return plan, nil
}

// GetPlan retrieves a previously computed plan.
func (s *TradeupService) GetPlan(ctx context.Context, id string) (domain.AllocationPlan, error) {
	if s.plans == nil {
		return domain.AllocationPlan{}, domain.ErrNotFound
	}
	return s.plans.GetByID(ctx, id)
}

// RecentPlans lists the most recently computed plans, newest first.
func (s *TradeupService) RecentPlans(ctx context.Context, limit int) ([]domain.AllocationPlan, error) {
	if s.plans == nil {
		return nil, nil
	}
	return s.plans.ListRecent(ctx, limit)
}

// ArchiveService moves old plans from the primary store into blob storage
// and deletes them only after the archive upload succeeded.
type ArchiveService struct {
	archiver  domain.PlanArchiver
	plans     domain.PlanStore
	retention time.Duration
	logger    *slog.Logger
}

// NewArchiveService creates an ArchiveService keeping plans for retention.
func NewArchiveService(archiver domain.PlanArchiver, plans domain.PlanStore, retention time.Duration, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		archiver:  archiver,
		plans:     plans,
		retention: retention,
		logger:    logger.With(slog.String("component", "archive_service")),
	}
}

// archiveInterval is how often the periodic archival pass runs.
const archiveInterval = 24 * time.Hour

// Run performs an archival pass at startup and then once per day, until ctx
// is cancelled.
func (s *ArchiveService) Run(ctx context.Context) error {
	ticker := time.NewTicker(archiveInterval)
	defer ticker.Stop()

	for {
		if err := s.ArchiveOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "archival pass failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ArchiveOnce uploads all plans older than the retention window and then
// deletes them from the primary store. Deletion is skipped when the upload
// fails, so a plan is never lost before it is archived.
func (s *ArchiveService) ArchiveOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	archived, err := s.archiver.ArchivePlans(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archive_service: archive: %w", err)
	}
	if archived == 0 {
		return nil
	}

	deleted, err := s.plans.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archive_service: delete archived: %w", err)
	}

	s.logger.InfoContext(ctx, "plans archived",
		slog.Int64("archived", archived),
		slog.Int64("deleted", deleted),
		slog.String("cutoff", cutoff.Format(time.RFC3339)),
	)
	return nil
}
