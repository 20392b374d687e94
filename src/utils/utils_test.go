package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsStable(t *testing.T) {
	a := Fingerprint([]byte("DXS*A\nSE*1"))
	b := Fingerprint([]byte("DXS*A\nSE*1"))
	c := Fingerprint([]byte("DXS*B\nSE*1"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateETag(t *testing.T) {
	e1, err := GenerateETag(map[string]int{"a": 1})
	require.NoError(t, err)
	e2, _ := GenerateETag(map[string]int{"a": 2})
	assert.Len(t, e1, 32)
	assert.NotEqual(t, e1, e2)

	_, err = GenerateETag(func() {})
	assert.Error(t, err)
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "bad file", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad file", body["error"])
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 10.13, RoundFloat(10.125001, 2))
	assert.Equal(t, 3.0, RoundFloat(2.999, 1))
}
