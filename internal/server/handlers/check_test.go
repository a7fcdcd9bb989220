package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/checker"
	"github.com/handlelens/handlelens/internal/core/engine"
)

type cannedChecker struct {
	platform core.PlatformID
	status   core.Status
}

func (c cannedChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	return &core.Verdict{
		Platform: c.platform,
		Username: username,
		Status:   c.status,
	}, nil
}

func (c cannedChecker) Platform() core.PlatformID { return c.platform }

func (c cannedChecker) SupportsName(username string) bool { return true }

func newCheckHandler(checkers ...cannedChecker) *CheckHandler {
	m := make(map[core.PlatformID]checker.Checker, len(checkers))
	for _, c := range checkers {
		m[c.platform] = c
	}
	return &CheckHandler{Dispatcher: &engine.Dispatcher{Checkers: m}}
}

func postCheck(t *testing.T, handler *CheckHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeCheckError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error
}

func TestCheckHandlerSuccess(t *testing.T) {
	handler := newCheckHandler(
		cannedChecker{platform: core.PlatformX, status: core.StatusAvailable},
		cannedChecker{platform: core.PlatformRoblox, status: core.StatusTaken},
	)

	rec := postCheck(t, handler, `{"username":"someuser","platforms":["x","roblox"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	require.Equal(t, core.StatusAvailable, resp.Results[0].Status)
	require.Equal(t, core.StatusTaken, resp.Results[1].Status)
}

func TestCheckHandlerValidation(t *testing.T) {
	handler := newCheckHandler(cannedChecker{platform: core.PlatformX, status: core.StatusAvailable})

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed json",
			body: `{"username":`,
			want: "Bad request",
		},
		{
			name: "missing username",
			body: `{"platforms":["x"]}`,
			want: "Username is required",
		},
		{
			name: "whitespace username",
			body: `{"username":"   ","platforms":["x"]}`,
			want: "Username is required",
		},
		{
			name: "too short",
			body: `{"username":"a","platforms":["x"]}`,
			want: "Username must be 2–32 chars",
		},
		{
			name: "too long",
			body: `{"username":"` + strings.Repeat("a", 33) + `","platforms":["x"]}`,
			want: "Username must be 2–32 chars",
		},
		{
			name: "invalid characters",
			body: `{"username":"bad handle!","platforms":["x"]}`,
			want: "Username contains invalid characters",
		},
		{
			name: "no platforms",
			body: `{"username":"someuser","platforms":[]}`,
			want: "Select at least one platform",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postCheck(t, handler, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			require.Equal(t, tc.want, decodeCheckError(t, rec))
		})
	}
}

func TestCheckHandlerUnrecognizedPlatformStillResolves(t *testing.T) {
	handler := newCheckHandler(cannedChecker{platform: core.PlatformX, status: core.StatusAvailable})

	rec := postCheck(t, handler, `{"username":"someuser","platforms":["x","myspace"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	require.Equal(t, core.PlatformID("myspace"), resp.Results[1].Platform)
	require.Equal(t, core.StatusUnknown, resp.Results[1].Status)
}

func TestCheckHandlerWithoutDispatcher(t *testing.T) {
	handler := &CheckHandler{}

	rec := postCheck(t, handler, `{"username":"someuser","platforms":["x"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Bad request", decodeCheckError(t, rec))
}
