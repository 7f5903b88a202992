// Package api holds the JSON helpers shared by the feature handlers.
// Every surfaced error renders as a single human-readable message.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/pkg/apperror"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func WriteError(w http.ResponseWriter, log logger.Logger, err error) {
	status := http.StatusInternalServerError

	var validation *apperror.ValidationError
	var insufficient *apperror.InsufficientStockError
	var remote *apperror.RemoteError
	var partial *apperror.PartialPersistError

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &insufficient):
		status = http.StatusConflict
	case errors.As(err, &remote):
		status = http.StatusBadGateway
	case errors.As(err, &partial):
		status = http.StatusInternalServerError
	case errors.Is(err, apperror.ErrNetworkUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperror.ErrNoSession):
		status = http.StatusUnauthorized
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation("body", "malformed JSON")
	}
	return nil
}
