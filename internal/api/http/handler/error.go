package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError maps a domain error onto a transport status and writes a
// JSON error body. Unrecognized errors become an opaque 500 so internals
// never leak to callers.
func WriteError(w http.ResponseWriter, log *logger.Logger, err error) {
	status, code, message := classify(err)

	if status == http.StatusInternalServerError {
		log.Error("HTTP handler: internal error", "error", err.Error())
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code})
}

func classify(err error) (status int, code, message string) {
	var validationErr *model.ValidationError
	var deniedErr *model.DeniedError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error", validationErr.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrAuthenticationMissing):
		return http.StatusUnauthorized, "authentication_missing", model.ErrAuthenticationMissing.Error()
	case errors.Is(err, model.ErrAuthenticationInvalid), errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized, "authentication_invalid", model.ErrAuthenticationInvalid.Error()
	case errors.As(err, &deniedErr):
		return http.StatusForbidden, "denied", deniedErr.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found", model.ErrNotFound.Error()
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "conflict", model.ErrConflict.Error()
	default:
		return http.StatusInternalServerError, "internal", err.Error()
	}
}
