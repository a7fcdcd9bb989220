package checker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/fetch"
)

func newTestFetcher(server *httptest.Server) *fetch.Fetcher {
	return &fetch.Fetcher{
		Client:  server.Client(),
		Headers: fetch.DefaultHeaders(),
		Timeout: 2 * time.Second,
	}
}

func TestRobloxCheckerTaken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/usernames/users", r.URL.Path)

		var req struct {
			Usernames []string `json:"usernames"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"builderman"}, req.Usernames)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":156,"name":"Builderman","displayName":"Builderman"}]}`))
	}))
	defer server.Close()

	checker := &RobloxChecker{
		Fetcher: newTestFetcher(server),
		BaseURL: server.URL,
	}

	verdict, err := checker.Check(context.Background(), "builderman")
	require.NoError(t, err)
	require.Equal(t, core.StatusTaken, verdict.Status)
	require.Equal(t, "https://www.roblox.com/users/156/profile", verdict.URL)
	require.Equal(t, int64(156), verdict.ExtraData["user_id"])
	require.Equal(t, "roblox", verdict.Provenance.Source)
	require.NotEmpty(t, verdict.Provenance.CheckID)
}

func TestRobloxCheckerAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	checker := &RobloxChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "unclaimed_handle")
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)
	require.Equal(t, http.StatusOK, verdict.StatusCode)
}

func TestRobloxCheckerIgnoresNonMatchingEntries(t *testing.T) {
	// The lookup API echoes fuzzy matches; only an exact case-insensitive
	// name counts as taken.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":99,"name":"someoneelse"}]}`))
	}))
	defer server.Close()

	checker := &RobloxChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "builderman")
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)
}

func TestRobloxCheckerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	checker := &RobloxChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "builderman")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "roblox_http_429", verdict.Reason)
	require.Equal(t, "120", verdict.ExtraData["retry_after"])
}

func TestRobloxCheckerMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":"not-an-array"}`))
	}))
	defer server.Close()

	checker := &RobloxChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "builderman")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "roblox_invalid_shape", verdict.Reason)
}

func TestRobloxCheckerNetworkFailure(t *testing.T) {
	checker := &RobloxChecker{
		Fetcher: fetch.New(fetch.DefaultHeaders(), time.Second),
		BaseURL: "http://127.0.0.1:1",
	}

	verdict, err := checker.Check(context.Background(), "builderman")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "roblox_network_error", verdict.Reason)
}

func TestRobloxSupportsName(t *testing.T) {
	checker := &RobloxChecker{}

	require.True(t, checker.SupportsName("builderman"))
	require.True(t, checker.SupportsName("user_123"))
	require.False(t, checker.SupportsName("ab"))
	require.False(t, checker.SupportsName("name.with.dots"))
	require.False(t, checker.SupportsName("this_name_is_far_too_long_for_roblox"))
}
