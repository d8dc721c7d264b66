package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// TradeupService defines the methods the trade-up handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type TradeupService interface {
	Evaluate(ctx context.Context, items []domain.TradeItem) (domain.RecipeResult, error)
	Allocate(ctx context.Context, primary, filler []domain.TradeItem, recipeCount, primariesPerRecipe int) (domain.AllocationPlan, error)
	GetPlan(ctx context.Context, id string) (domain.AllocationPlan, error)
	RecentPlans(ctx context.Context, limit int) ([]domain.AllocationPlan, error)
}

// InventoryPools splits the held inventory into primary and filler pools.
// Satisfied by service.InventoryService.
type InventoryPools interface {
	Split(primaryEntryIDs []string) (primary, filler []domain.TradeItem)
}

// TradeupHandler serves recipe evaluation and allocation endpoints.
type TradeupHandler struct {
	tradeups  TradeupService
	inventory InventoryPools
	defaults  AllocateDefaults
	logger    *slog.Logger
}

// AllocateDefaults are applied when an allocate request omits the search
// shape.
type AllocateDefaults struct {
	RecipeCount        int
	PrimariesPerRecipe int
}

// NewTradeupHandler creates a TradeupHandler.
func NewTradeupHandler(tradeups TradeupService, inventory InventoryPools, defaults AllocateDefaults, logger *slog.Logger) *TradeupHandler {
	return &TradeupHandler{
		tradeups:  tradeups,
		inventory: inventory,
		defaults:  defaults,
		logger:    logger,
	}
}

// evaluateRequest carries the ten recipe inputs.
type evaluateRequest struct {
	Items []itemPayload `json:"items"`
}

// itemPayload is one trade item on the wire.
type itemPayload struct {
	EntryID  string  `json:"entry_id"`
	Float    float64 `json:"float"`
	StatTrak bool    `json:"stattrak"`
}

// evaluateResponse mirrors domain.RecipeResult with stable JSON names.
type evaluateResponse struct {
	EV       float64          `json:"ev"`
	Cost     float64          `json:"cost"`
	ROI      float64          `json:"roi"`
	Outcomes []outcomePayload `json:"outcomes"`
}

type outcomePayload struct {
	EntryID     string  `json:"entry_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Float       float64 `json:"float"`
}

// Evaluate computes the outcome distribution and economics of one recipe.
// POST /api/evaluate
func (h *TradeupHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.TradeItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.TradeItem{
			EntryID:  it.EntryID,
			Float:    it.Float,
			StatTrak: it.StatTrak,
		}
	}

	result, err := h.tradeups.Evaluate(r.Context(), items)
	if err != nil {
		var vErr *domain.ValidationError
		var nErr *domain.NoOutcomesError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusUnprocessableEntity, vErr.Error())
		case errors.As(err, &nErr):
			writeError(w, http.StatusUnprocessableEntity, nErr.Error())
		default:
			h.logger.ErrorContext(r.Context(), "handler: evaluate failed",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	resp := evaluateResponse{EV: result.EV, Cost: result.Cost, ROI: result.ROI}
	for _, out := range result.Outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomePayload{
			EntryID:     out.Entry.ID,
			Name:        out.Entry.Name,
			Probability: out.Probability,
			Float:       out.Float,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// allocateRequest selects the primary entries and optionally overrides the
// search shape.
type allocateRequest struct {
	PrimaryEntryIDs    []string `json:"primary_entry_ids"`
	RecipeCount        int      `json:"recipe_count"`
	PrimariesPerRecipe int      `json:"primaries_per_recipe"`
}

// Allocate partitions the held inventory into recipes and returns the plan.
// POST /api/allocate
func (h *TradeupHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PrimaryEntryIDs) == 0 {
		writeError(w, http.StatusBadRequest, "primary_entry_ids is required")
		return
	}

	recipeCount := req.RecipeCount
	if recipeCount <= 0 {
		recipeCount = h.defaults.RecipeCount
	}
	primaries := req.PrimariesPerRecipe
	if primaries <= 0 {
		primaries = h.defaults.PrimariesPerRecipe
	}

	primary, filler := h.inventory.Split(req.PrimaryEntryIDs)

	plan, err := h.tradeups.Allocate(r.Context(), primary, filler, recipeCount, primaries)
	if err != nil {
		var iErr *domain.InsufficientInventoryError
		if errors.As(err, &iErr) {
			writeError(w, http.StatusUnprocessableEntity, iErr.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: allocate failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "allocation failed")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// ListPlans returns recent plans, newest first.
// GET /api/plans?limit=50
func (h *TradeupHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)

	plans, err := h.tradeups.RecentPlans(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list plans failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	if plans == nil {
		plans = []domain.AllocationPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetPlan returns a single plan by its ID.
// GET /api/plans/{id}
func (h *TradeupHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing plan id")
		return
	}

	plan, err := h.tradeups.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get plan failed",
			slog.String("plan_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
