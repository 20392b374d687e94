// src/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/security/validation"
	"github.com/username/vendingreader/backend/src/services"
	"github.com/username/vendingreader/backend/src/utils"
)

// sendServiceError maps service errors to status codes. Unexpected errors are logged and hidden.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(w, "resource not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateReading):
		utils.SendJSONError(w, "this file has already been uploaded", http.StatusConflict)
	case errors.Is(err, services.ErrDecodeFailed), errors.Is(err, services.ErrMissingMachineID):
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.FromContext(r.Context()).Error("Unhandled service error", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
