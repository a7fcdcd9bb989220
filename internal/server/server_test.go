package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/checker"
	"github.com/handlelens/handlelens/internal/core/engine"
	apperrors "github.com/handlelens/handlelens/internal/errors"
)

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := New("127.0.0.1", 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv := New("127.0.0.1", 0, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/check", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Fatalf("expected error code METHOD_NOT_ALLOWED, got %s", body.Error.Code)
	}
}

func TestServerRoutesCheckEndpoint(t *testing.T) {
	dispatcher := &engine.Dispatcher{Checkers: map[core.PlatformID]checker.Checker{}}
	srv := New("127.0.0.1", 0, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/api/check",
		strings.NewReader(`{"username":"someuser","platforms":["myspace"]}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected Cache-Control no-store, got %q", got)
	}

	var body struct {
		Results []*core.Verdict `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(body.Results))
	}
	if body.Results[0].Status != core.StatusUnknown {
		t.Fatalf("expected unknown status, got %s", body.Results[0].Status)
	}
}

func TestServerVersionEndpoint(t *testing.T) {
	srv := New("127.0.0.1", 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
