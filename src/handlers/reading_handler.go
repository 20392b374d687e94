// src/handlers/reading_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/services"
	"github.com/username/vendingreader/backend/src/utils"
)

type ReadingHandler struct {
	readingService services.ReadingService
}

func NewReadingHandler(service services.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: service}
}

// HandleGetReading returns the stored reading with its full report, honouring If-None-Match.
func (h *ReadingHandler) HandleGetReading(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())
	readingID := chi.URLParam(r, "readingID")

	result, err := h.readingService.GetReport(r.Context(), userID, readingID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	currentETag, etagErr := utils.GenerateETag(result)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag for reading", "readingID", readingID, "error", etagErr)
	} else {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				ctxLogger.Debug("ETag match for reading", "readingID", readingID)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, result, http.StatusOK)
}

func (h *ReadingHandler) HandleDeleteReading(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if err := h.readingService.DeleteReading(r.Context(), userID, chi.URLParam(r, "readingID")); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
