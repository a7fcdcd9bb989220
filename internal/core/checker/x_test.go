package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
)

func TestXCheckerTaken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/widgets/followbutton/info.json", r.URL.Path)
		require.Equal(t, "jack", r.URL.Query().Get("screen_names"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"screen_name":"jack","id":"12"}]`))
	}))
	defer server.Close()

	checker := &XChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "@jack")
	require.NoError(t, err)
	require.Equal(t, core.StatusTaken, verdict.Status)
	require.Equal(t, "jack", verdict.Username)
	require.Equal(t, "https://x.com/jack", verdict.URL)
	require.Equal(t, "12", verdict.ExtraData["user_id"])
	require.Equal(t, "x_syndication", verdict.Provenance.Source)
}

func TestXCheckerAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	checker := &XChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "free_handle")
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)
}

func TestXCheckerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := &XChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "jack")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "x_http_404", verdict.Reason)
}

func TestXCheckerInvalidShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"12"}]`))
	}))
	defer server.Close()

	checker := &XChecker{Fetcher: newTestFetcher(server), BaseURL: server.URL}

	verdict, err := checker.Check(context.Background(), "jack")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "x_invalid_shape", verdict.Reason)
}

func TestXSupportsName(t *testing.T) {
	checker := &XChecker{}

	require.True(t, checker.SupportsName("jack"))
	require.True(t, checker.SupportsName("@jack"))
	require.True(t, checker.SupportsName("user_name_15ch"))
	require.False(t, checker.SupportsName("name.with.dots"))
	require.False(t, checker.SupportsName("sixteen_chars_ab"))
	require.False(t, checker.SupportsName(""))
}
