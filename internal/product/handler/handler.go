package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-terminal/internal/api"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.Logger
}

func NewProductHandler(uc product.UseCase, log logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func (h *ProductHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/barcode/{code}", h.findByBarcode)
	return r
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.List(r.Context())
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := api.Decode(r, &input); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	p, err := h.uc.Create(r.Context(), &input)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch dto.ProductPatch
	if err := api.Decode(r, &patch); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	p, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *ProductHandler) findByBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.FindByBarcode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	if p == nil {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}
