// src/utils/utils.go
package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/username/vendingreader/backend/src/logger"
	"golang.org/x/crypto/blake2b"
)

// SendJSONError writes {"error": message} with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SendJSON writes v as a JSON body with the given status.
func SendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// Fingerprint returns a hex BLAKE2b-256 digest of data. Identical uploads share a fingerprint.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GenerateETag fingerprints the JSON encoding of v.
func GenerateETag(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value for ETag: %w", err)
	}
	return Fingerprint(raw)[:32], nil
}

// RoundFloat rounds val to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
