// src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/username/vendingreader/backend/src/logger"
	"golang.org/x/net/html/charset"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
// Handheld audit units export EVA-DTS as .txt, .dex or .eva files, the latter usually
// arriving as octet-stream.
var AllowedClientContentTypes = map[string]bool{
	"text/plain":               true,
	"application/octet-stream": true,
	"application/x-eva-dts":    true,
	"":                         true, // Some handhelds send no part header at all
	"text/csv":                 false,
	"text/html":                false,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed, exists := AllowedClientContentTypes[ct]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed for EVA-DTS upload", ErrValidationFailed, contentType)
	}
	return nil
}

// isBinaryContent reports whether buf holds NUL bytes, which never occur in an EVA-DTS dump.
func isBinaryContent(buf []byte) bool {
	return bytes.IndexByte(buf, 0) != -1
}

// ReadTextUpload reads at most maxBytes from r, rejects binary content and
// normalizes the text to UTF-8. It returns the text and the detected source charset.
func ReadTextUpload(r io.Reader, maxBytes int64) (string, string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return "", "", fmt.Errorf("%w: upload exceeds %d bytes", ErrValidationFailed, maxBytes)
	}
	if len(raw) == 0 {
		return "", "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	if isBinaryContent(raw) {
		logger.L.Warn("File rejected: Binary content detected in text upload")
		return "", "", fmt.Errorf("%w: file appears to be binary, not EVA-DTS text", ErrValidationFailed)
	}
	return NormalizeTextEncoding(raw)
}

// NormalizeTextEncoding converts legacy single-byte dumps (older controllers write
// Latin-1 product names) to UTF-8. Valid UTF-8 input is returned unchanged.
func NormalizeTextEncoding(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	enc, name, _ := charset.DetermineEncoding(raw, "text/plain")
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", name, fmt.Errorf("%w: cannot decode %s text: %v", ErrValidationFailed, name, err)
	}
	logger.L.Debug("Upload transcoded to UTF-8", "charset", name)
	return string(decoded), name, nil
}
