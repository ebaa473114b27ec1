package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EPAYMENT, http.StatusPaymentRequired},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_DoesNotExposeInternalDetails(t *testing.T) {
	err := domain.Internal(errors.New("pq: password authentication failed for user \"duesoon\""), "sweep.run", "failed to load due items")

	req := httptest.NewRequest(http.MethodPost, "/internal/reminders/sweep", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body["error"], "password")
	assert.NotContains(t, body["error"], "sweep.run")
	assert.NotContains(t, body, "data")
}

func TestErrorResponse_PassesClientMessages(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/reminders/quota", nil)
	rec := httptest.NewRecorder()
	UnauthorizedResponse(rec, req, testLogger(), "Missing bearer token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing bearer token", body["error"])
}

func TestJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusOK, map[string]int{"checked": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"checked": float64(2)}, body["data"])
	assert.NotContains(t, body, "error")
}
