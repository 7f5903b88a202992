package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-terminal/internal/api"
	"github.com/fekuna/omnipos-terminal/internal/inventory"
	"github.com/fekuna/omnipos-terminal/internal/inventory/dto"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.Logger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

func (h *InventoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/check", h.check)
	r.Put("/batch", h.batchSet)
	r.Put("/{id}", h.set)
	return r
}

func (h *InventoryHandler) check(w http.ResponseWriter, r *http.Request) {
	var requested []dto.StockRequest
	if err := api.Decode(r, &requested); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	report, err := h.uc.CheckAvailability(r.Context(), requested)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, report)
}

func (h *InventoryHandler) set(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stock int `json:"stock"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	res, err := h.uc.SetStock(r.Context(), chi.URLParam(r, "id"), body.Stock)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

func (h *InventoryHandler) batchSet(w http.ResponseWriter, r *http.Request) {
	var updates []dto.StockUpdate
	if err := api.Decode(r, &updates); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	res, err := h.uc.BatchSetStock(r.Context(), updates)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}
