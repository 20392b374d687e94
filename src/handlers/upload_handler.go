// src/handlers/upload_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/security/validation"
	"github.com/username/vendingreader/backend/src/services"
	"github.com/username/vendingreader/backend/src/utils"
)

// multipartOverhead allows for boundaries and part headers around the file itself.
const multipartOverhead = 4 << 10

type UploadHandler struct {
	readingService services.ReadingService
	maxUploadBytes int64
}

func NewUploadHandler(service services.ReadingService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		readingService: service,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpload stores an audit file sent as the multipart "file" part.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to process upload or file too large (max %d bytes)", h.maxUploadBytes), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadBytes {
		ctxLogger.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d bytes", h.maxUploadBytes), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctxLogger.Info("Processing upload request", "filename", fileHeader.Filename, "size", fileHeader.Size)
	result, err := h.readingService.ProcessUpload(r.Context(), file, userID, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		ctxLogger.Warn("Upload processing failed", "filename", fileHeader.Filename, "error", err)
		sendServiceError(w, r, err)
		return
	}

	utils.SendJSON(w, result, http.StatusCreated)
}
