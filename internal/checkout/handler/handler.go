package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-terminal/internal/api"
	"github.com/fekuna/omnipos-terminal/internal/checkout"
	"github.com/fekuna/omnipos-terminal/internal/checkout/dto"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type CheckoutHandler struct {
	uc     checkout.Coordinator
	logger logger.Logger
}

func NewCheckoutHandler(uc checkout.Coordinator, log logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, logger: log}
}

func (h *CheckoutHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.checkout)
	r.Get("/", h.history)
	r.Get("/status", h.status)
	r.Post("/reset", h.reset)
	return r
}

func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var input dto.CheckoutInput
	if err := api.Decode(r, &input); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	receipt, err := h.uc.Checkout(r.Context(), &input)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	// Handing the receipt to the caller is the acknowledgement; the
	// coordinator is freed for the next sale and the UI clears its cart.
	h.uc.Reset()
	api.WriteJSON(w, http.StatusCreated, receipt)
}

func (h *CheckoutHandler) history(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.uc.History(r.Context())
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, transactions)
}

func (h *CheckoutHandler) status(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": h.uc.Status().String()})
}

func (h *CheckoutHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.uc.Reset()
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": h.uc.Status().String()})
}
