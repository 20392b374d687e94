// src/handlers/decode_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/security/validation"
	"github.com/username/vendingreader/backend/src/services"
	"github.com/username/vendingreader/backend/src/utils"
)

type DecodeHandler struct {
	readingService services.ReadingService
	maxUploadBytes int64
}

func NewDecodeHandler(service services.ReadingService, maxUploadBytes int64) *DecodeHandler {
	return &DecodeHandler{readingService: service, maxUploadBytes: maxUploadBytes}
}

// HandleDecode decodes a raw text body or a multipart "file" part without storing it.
func (h *DecodeHandler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	body, closeBody, err := h.openPayload(w, r)
	if err != nil {
		ctxLogger.Warn("Decode request rejected", "error", err)
		sendServiceError(w, r, err)
		return
	}
	defer closeBody()

	text, _, err := validation.ReadTextUpload(body, h.maxUploadBytes)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	report, err := h.readingService.DecodeOnly(r.Context(), text)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	ctxLogger.Info("Decoded EVA-DTS payload", "products", len(report.Products), "events", len(report.Events))
	utils.SendJSON(w, report, http.StatusOK)
}

func (h *DecodeHandler) openPayload(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		if err := validation.ValidateClientContentType(contentType); err != nil {
			return nil, nil, err
		}
		body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1)
		return body, func() { body.Close() }, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: cannot parse multipart form: %v", validation.ErrValidationFailed, err)
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing 'file' part", validation.ErrValidationFailed)
	}
	if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type")); err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}
