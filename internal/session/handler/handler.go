package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-terminal/internal/api"
	"github.com/fekuna/omnipos-terminal/internal/session"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type SessionHandler struct {
	uc     session.Manager
	logger logger.Logger
}

func NewSessionHandler(uc session.Manager, log logger.Logger) *SessionHandler {
	return &SessionHandler{uc: uc, logger: log}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sign-in", h.signIn)
	r.Post("/sign-out", h.signOut)
	r.Get("/", h.get)
	r.Post("/refresh", h.refresh)
	return r
}

func (h *SessionHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	s, err := h.uc.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}

func (h *SessionHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.SignOut(r.Context()); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSession(r.Context())
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	if s == nil {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}

func (h *SessionHandler) refresh(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.RefreshSession(r.Context())
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	if s == nil {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}
