package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens.toml"))
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}
	client, err := NewClient(srv.URL, store)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]any{"projects": []any{}})
	}))
	if err := client.SetTokens("token-abc", "refresh"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	if _, err := client.Projects.List(context.Background(), ListProjectsParams{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}
}

func TestClientRetriesOnceAfterRefresh(t *testing.T) {
	t.Parallel()

	var apiCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, map[string]string{"access_token": "fresh"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
			t.Errorf("retry Authorization = %q, want %q", got, "Bearer fresh")
		}
		writeJSON(t, w, User{ID: "u1", Email: "a@b.is"})
	})

	client := newTestClient(t, mux)
	if err := client.SetTokens("stale", "refresh-token"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	user, err := client.Auth.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "u1")
	}
	if got := apiCalls.Load(); got != 2 {
		t.Errorf("api calls = %d, want 2", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
}

func TestClientGivesUpAfterSecond401(t *testing.T) {
	t.Parallel()

	var apiCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, map[string]string{"access_token": "fresh"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, mux)
	if err := client.SetTokens("stale", "refresh-token"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	logouts := client.LogoutNotifications()

	_, err := client.Auth.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("CurrentUser error = %v, want ErrUnauthorized", err)
	}
	// Exactly one retry: two requests total, one refresh between them.
	if got := apiCalls.Load(); got != 2 {
		t.Errorf("api calls = %d, want 2", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if client.IsAuthenticated() {
		t.Error("tokens still held after unrecoverable 401")
	}
	select {
	case <-logouts:
	case <-time.After(time.Second):
		t.Error("no logout broadcast after unrecoverable 401")
	}
}

func TestClientFailedRefreshBroadcastsLogout(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, mux)
	if err := client.SetTokens("stale", "bad-refresh"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	logouts := client.LogoutNotifications()

	_, err := client.Auth.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("CurrentUser error = %v, want ErrUnauthorized", err)
	}
	select {
	case <-logouts:
	case <-time.After(time.Second):
		t.Error("no logout broadcast after failed refresh")
	}
}

func TestClientSingleFlightRefresh(t *testing.T) {
	t.Parallel()

	const workers = 8
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		// Hold the refresh open long enough for every worker to hit its 401
		// and pile onto the shared attempt.
		time.Sleep(100 * time.Millisecond)
		writeJSON(t, w, map[string]string{"access_token": "fresh"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, User{ID: "u1"})
	})

	client := newTestClient(t, mux)
	if err := client.SetTokens("stale", "refresh-token"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Auth.CurrentUser(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
}

func TestClientDecodesErrorDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeJSON(t, w, map[string]string{"detail": "title is required"})
	}))

	_, err := client.MyProjects.Create(context.Background(), ProjectCreate{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Detail != "title is required" {
		t.Errorf("Detail = %q, want %q", apiErr.Detail, "title is required")
	}
	if !IsStatus(err, http.StatusUnprocessableEntity) {
		t.Error("IsStatus(err, 422) = false")
	}
}

func TestClientNoContentResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.MyProjects.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestClientQueryEncoding(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Encode()
		writeJSON(t, w, ProjectList{})
	}))

	_, err := client.Projects.List(context.Background(), ListProjectsParams{
		Search:  "vim plugin",
		Tags:    []string{"tools", "go"},
		Page:    2,
		PerPage: 25,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/api/projects" {
		t.Errorf("path = %q, want %q", gotPath, "/api/projects")
	}
	want := "page=2&per_page=25&search=vim+plugin&tags=tools&tags=go"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestParseBaseURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:8000", "http://localhost:8000"},
		{"localhost:8000", "http://localhost:8000"},
		{"https://api.syna.is/", "https://api.syna.is"},
		{"https://api.syna.is/v1?x=1#frag", "https://api.syna.is"},
	}
	for _, tc := range cases {
		u, err := parseBaseURL(tc.in)
		if err != nil {
			t.Errorf("parseBaseURL(%q): %v", tc.in, err)
			continue
		}
		if u.String() != tc.want {
			t.Errorf("parseBaseURL(%q) = %q, want %q", tc.in, u.String(), tc.want)
		}
	}

	if _, err := parseBaseURL("  "); err == nil {
		t.Error("parseBaseURL of blank input did not fail")
	}
}
