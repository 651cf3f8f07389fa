package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	apierrors "admin/internal/errors"
	"admin/internal/models"

	"go.uber.org/zap"
)

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

// RespondWithRawJSON writes an already encoded JSON document.
func RespondWithRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func RespondWithMessage(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, models.MessageResponse{Message: message})
}

// RespondWithError answers with the status carried by an APIError, or 500 for anything else.
func RespondWithError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		RespondWithMessage(w, apiErr.Code, apiErr.Message)
		return
	}
	RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgInternal)
}

// RespondWithBackendJSON relays a backend reply with its status. Bodies that are not JSON
// are replaced by an empty object.
func RespondWithBackendJSON(w http.ResponseWriter, status int, body []byte) {
	if status == http.StatusNoContent || status == http.StatusNotModified {
		w.WriteHeader(status)
		return
	}
	if !json.Valid(body) {
		body = []byte("{}")
	}
	RespondWithRawJSON(w, status, body)
}
