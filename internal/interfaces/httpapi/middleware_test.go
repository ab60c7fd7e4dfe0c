package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
)

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: http.StatusOK, level: "INFO"},
		{status: http.StatusUnprocessableEntity, level: "WARN"},
		{status: http.StatusServiceUnavailable, level: "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := logging.NewJSONTo(&buf, logging.LevelDebug)
		handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/intakes/abc/roster", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var entry map[string]any
		if err := jsoniter.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("status %d: decode log line %q: %v", tt.status, buf.String(), err)
		}
		if entry["level"] != tt.level {
			t.Fatalf("status %d: level=%v want %s", tt.status, entry["level"], tt.level)
		}
		if entry["client_ip"] != "203.0.113.7" {
			t.Fatalf("status %d: client_ip=%v", tt.status, entry["client_ip"])
		}
	}
}

func TestLimitRequestBody(t *testing.T) {
	var readErr error
	handler := limitRequestBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	big := strings.NewReader(strings.Repeat("a", maxRequestBody+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/v1/intakes/abc/match", big))
	if readErr == nil {
		t.Fatalf("expected oversized body to fail")
	}

	small := strings.NewReader(`{"plan":"TEAM_DATA"}`)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/v1/intakes/abc/match", small))
	if readErr != nil {
		t.Fatalf("small body: %v", readErr)
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plans", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked into response: %s", rec.Body.String())
	}
}
