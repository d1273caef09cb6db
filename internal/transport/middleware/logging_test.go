package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestLoggingCarriesIssuedTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	issued := rec.Header().Get("X-Trace-ID")
	require.NotEmpty(t, issued)

	lines := decodeLogLines(t, &buf)
	require.Len(t, lines, 2)
	for _, entry := range lines {
		assert.Equal(t, issued, entry["request_id"], "log line %q", entry["msg"])
	}
}

func TestLoggingKeepsCallerTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	req.Header.Set("X-Trace-ID", "trace-from-upstream")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "trace-from-upstream", rec.Header().Get("X-Trace-ID"))
	for _, entry := range decodeLogLines(t, &buf) {
		assert.Equal(t, "trace-from-upstream", entry["request_id"])
	}
}

func TestTraceIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TraceID(req.Context()))
}
