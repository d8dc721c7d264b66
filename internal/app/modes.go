package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/skincraft/tradeupbot/internal/domain"
	"github.com/skincraft/tradeupbot/internal/feed"
	"github.com/skincraft/tradeupbot/internal/server"
	"github.com/skincraft/tradeupbot/internal/server/handler"
)

// ServeMode runs the long-lived service: HTTP API, price snapshot bootstrap,
// live price ticker, float-refinement consumer, and the periodic plan
// archiver. It blocks until ctx is cancelled or a subsystem fails.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	// Bootstrap the listing cache before anything prices against it.
	if err := a.loadSnapshot(ctx, deps); err != nil {
		return fmt.Errorf("serve mode: %w", err)
	}

	// Live price updates.
	if a.cfg.PriceFeed.WsHost != "" {
		ticker := feed.NewTicker(a.cfg.PriceFeed.WsHost, deps.ListingCache, a.logger)
		g.Go(func() error {
			return ticker.Run(ctx)
		})
	}

	// Apply float refinements as the inspect-link collaborator completes them.
	g.Go(func() error {
		return deps.Inventory.ConsumeRefinements(ctx)
	})

	// Periodic plan archival.
	if deps.Archive != nil {
		g.Go(func() error {
			return deps.Archive.Run(ctx)
		})
	}

	// HTTP API.
	if a.cfg.Server.Enabled {
		srv := server.NewServer(server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		}, server.Handlers{
			Health: handler.NewHealthHandler(a.logger),
			Tradeups: handler.NewTradeupHandler(deps.Tradeups, deps.Inventory, handler.AllocateDefaults{
				RecipeCount:        a.cfg.Optimizer.RecipeCount,
				PrimariesPerRecipe: a.cfg.Optimizer.PrimariesPerRecipe,
			}, a.logger),
			Inventory: handler.NewInventoryHandler(deps.Inventory, a.logger),
		}, a.logger)

		g.Go(func() error {
			return srv.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	return g.Wait()
}

// AllocateMode performs a one-shot allocation: load the inventory payload,
// partition it into recipes, and print the ranked plan as a report.
func (a *App) AllocateMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting allocate mode",
		slog.String("inventory", a.cfg.Inventory.Path),
	)

	if err := a.loadSnapshot(ctx, deps); err != nil {
		return fmt.Errorf("allocate mode: %w", err)
	}

	if err := a.importInventoryFile(ctx, deps); err != nil {
		return fmt.Errorf("allocate mode: %w", err)
	}

	primary, filler := deps.Inventory.Split(a.cfg.Inventory.PrimaryEntries)
	a.logger.InfoContext(ctx, "pools built",
		slog.Int("primary", len(primary)),
		slog.Int("filler", len(filler)),
	)

	plan, err := deps.Tradeups.Allocate(ctx, primary, filler,
		a.cfg.Optimizer.RecipeCount, a.cfg.Optimizer.PrimariesPerRecipe)
	if err != nil {
		return fmt.Errorf("allocate mode: %w", err)
	}

	printPlan(plan, deps.Catalog)
	return nil
}

// ImportMode performs a one-shot inventory import: decode the payload, match
// it against the catalog, and, when Postgres is wired, sync the file catalog
// into the catalog store so serve deployments can switch to it.
func (a *App) ImportMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting import mode",
		slog.String("inventory", a.cfg.Inventory.Path),
	)

	if err := a.importInventoryFile(ctx, deps); err != nil {
		return fmt.Errorf("import mode: %w", err)
	}

	if deps.CatalogStore != nil && a.cfg.Catalog.Source == "file" {
		if err := deps.CatalogStore.UpsertEntries(ctx, deps.Catalog.All()); err != nil {
			return fmt.Errorf("import mode: sync catalog: %w", err)
		}
		count, err := deps.CatalogStore.Count(ctx)
		if err != nil {
			return fmt.Errorf("import mode: count catalog: %w", err)
		}
		a.logger.InfoContext(ctx, "catalog synced to postgres", slog.Int64("entries", count))
	}

	return nil
}

// loadSnapshot bulk-loads listing prices from the configured source. The URL
// takes precedence; the file path backs offline runs.
func (a *App) loadSnapshot(ctx context.Context, deps *Dependencies) error {
	loader := feed.NewSnapshotLoader(deps.ListingCache, a.logger)

	switch {
	case a.cfg.PriceFeed.SnapshotURL != "":
		_, err := loader.LoadURL(ctx, a.cfg.PriceFeed.SnapshotURL)
		return err
	case a.cfg.PriceFeed.SnapshotPath != "":
		_, err := loader.LoadFile(ctx, a.cfg.PriceFeed.SnapshotPath)
		return err
	default:
		return nil
	}
}

// importInventoryFile reads the configured inventory payload and feeds it
// through the inventory service.
func (a *App) importInventoryFile(ctx context.Context, deps *Dependencies) error {
	payload, err := os.ReadFile(a.cfg.Inventory.Path)
	if err != nil {
		return fmt.Errorf("read inventory %s: %w", a.cfg.Inventory.Path, err)
	}

	_, _, err = deps.Inventory.ImportPayload(ctx, payload)
	return err
}

// printPlan writes a human-readable allocation report to stdout. One-shot
// runs are driven from a terminal; structured logs stay on stderr.
func printPlan(plan domain.AllocationPlan, cat domain.Catalog) {
	fmt.Printf("Plan %s: %d recipes, %d accepted swaps\n", plan.ID, len(plan.Recipes), plan.Swaps)
	fmt.Printf("Total EV %.2f, cost %.2f, ROI %.2f%%\n\n", plan.TotalEV, plan.TotalCost, plan.TotalROI()*100)

	for i, pr := range plan.Recipes {
		fmt.Printf("Recipe #%d (tier %d): EV %.2f, cost %.2f, ROI %.2f%%\n",
			i+1, pr.Recipe.Tier, pr.Result.EV, pr.Result.Cost, pr.Result.ROI*100)
		for _, it := range pr.Recipe.Items {
			name := it.EntryID
			if entry, err := cat.ByID(it.EntryID); err == nil {
				name = entry.Name
			}
			fmt.Printf("  in  %-40s float %.6f\n", name, it.Float)
		}
		for _, out := range pr.Result.Outcomes {
			fmt.Printf("  out %-40s %.1f%% at %.6f\n", out.Entry.Name, out.Probability*100, out.Float)
		}
		fmt.Println()
	}
}
