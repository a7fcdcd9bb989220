package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
)

func TestInstagramCheckerTakenViaProfileAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/users/web_profile_info/", r.URL.Path)
		require.Equal(t, "instagram", r.URL.Query().Get("username"))
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"user":{"username":"instagram","id":"25025320"}}}`))
	}))
	defer server.Close()

	checker := &InstagramChecker{
		Fetcher:    newTestFetcher(server),
		APIBaseURL: server.URL,
		WebBaseURL: server.URL,
	}

	verdict, err := checker.Check(context.Background(), "instagram")
	require.NoError(t, err)
	require.Equal(t, core.StatusTaken, verdict.Status)
	require.Equal(t, "https://www.instagram.com/instagram/", verdict.URL)
	require.Equal(t, "25025320", verdict.ExtraData["user_id"])
	require.Equal(t, "instagram", verdict.Provenance.Source)
}

func TestInstagramCheckerAvailableViaPage404(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", func(w http.ResponseWriter, r *http.Request) {
		// Anonymous API calls often get an empty user object.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	checker := &InstagramChecker{
		Fetcher:    newTestFetcher(server),
		APIBaseURL: server.URL,
		WebBaseURL: server.URL,
	}

	verdict, err := checker.Check(context.Background(), "unclaimed.handle")
	require.NoError(t, err)
	require.Equal(t, core.StatusAvailable, verdict.Status)
	require.Equal(t, http.StatusNotFound, verdict.StatusCode)
}

func TestInstagramCheckerLoginWallRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/accounts/login/", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	checker := &InstagramChecker{
		Fetcher:    newTestFetcher(server),
		APIBaseURL: server.URL,
		WebBaseURL: server.URL,
	}

	verdict, err := checker.Check(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "instagram_login_wall", verdict.Reason)
}

func TestInstagramCheckerPageBodyRules(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status core.Status
		reason string
	}{
		{
			name:   "not found phrase",
			body:   "<html>Sorry, this page isn't available.</html>",
			status: core.StatusAvailable,
			reason: "instagram_not_found_page",
		},
		{
			name:   "login marker",
			body:   `<html><form id="loginForm">...</form></html>`,
			status: core.StatusUnknown,
			reason: "instagram_login_wall",
		},
		{
			name:   "renderable profile",
			body:   "<html><head><title>someuser</title></head><body>profile</body></html>",
			status: core.StatusTaken,
			reason: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/users/web_profile_info/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			})
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			checker := &InstagramChecker{
				Fetcher:    newTestFetcher(server),
				APIBaseURL: server.URL,
				WebBaseURL: server.URL,
			}

			verdict, err := checker.Check(context.Background(), "someuser")
			require.NoError(t, err)
			require.Equal(t, tc.status, verdict.Status)
			require.Equal(t, tc.reason, verdict.Reason)
		})
	}
}

func TestInstagramCheckerDoesNotFollowPageRedirects(t *testing.T) {
	var pagePaths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pagePaths = append(pagePaths, r.URL.Path)
		http.Redirect(w, r, "/accounts/login/", http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	checker := &InstagramChecker{
		Fetcher:    newTestFetcher(server),
		APIBaseURL: server.URL,
		WebBaseURL: server.URL,
	}

	_, err := checker.Check(context.Background(), "someuser")
	require.NoError(t, err)
	require.Len(t, pagePaths, 1)
	require.True(t, strings.HasPrefix(pagePaths[0], "/someuser"))
}

func TestInstagramSupportsName(t *testing.T) {
	checker := &InstagramChecker{}

	require.True(t, checker.SupportsName("some.user_name"))
	require.True(t, checker.SupportsName("ab"))
	require.False(t, checker.SupportsName(""))
	require.False(t, checker.SupportsName("name-with-dashes"))
	require.False(t, checker.SupportsName(strings.Repeat("a", 31)))
}
