package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/logger"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondFailure maps domain errors to status codes
//
//	ErrValidation       → 400
//	ErrStoreUnavailable → 412 (run `cinemood build` first)
//	otherwise           → 500
func respondFailure(w http.ResponseWriter, log *logger.Logger, err error) {
	var verr *contracts.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, contracts.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrStoreUnavailable):
		respondError(w, http.StatusPreconditionFailed, contracts.ErrStoreUnavailable.Error())
	default:
		log.WithError(err).Error("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
