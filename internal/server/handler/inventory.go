package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// InventoryService defines the methods the inventory handler requires from
// the service layer.
type InventoryService interface {
	ImportPayload(ctx context.Context, payload []byte) (added, skipped int, err error)
	Items() []domain.TradeItem
}

// InventoryHandler serves inventory import and listing endpoints.
type InventoryHandler struct {
	inventory InventoryService
	logger    *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(inventory InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// importResponse reports how many assets were matched against the catalog.
type importResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Import validates and ingests a raw inventory JSON payload.
// POST /api/inventory/import
func (h *InventoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	added, skipped, err := h.inventory.ImportPayload(r.Context(), payload)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: inventory import failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Added: added, Skipped: skipped})
}

// List returns the items currently held in the inventory.
// GET /api/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.inventory.Items()
	if items == nil {
		items = []domain.TradeItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
