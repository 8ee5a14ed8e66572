package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Credentials{BaseURL: srv.URL + "/", Email: "dev@acme.io", APIToken: "tok"}, Config{PageSize: 50})
	return srv, client
}

func TestCloudClient_FetchIssues(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("jql") != DefaultJQL || q.Get("maxResults") != "50" || q.Get("expand") != "changelog" || q.Get("fields") != "*all" {
			t.Errorf("unexpected query: %v", q)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "dev@acme.io" || pass != "tok" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}
		w.Write([]byte(`{"total": 3, "issues": [
			{"key": "A-1", "fields": {"status": {"name": "Done"}}},
			"not an issue",
			{"key": "A-2", "fields": {}}
		]}`))
	})

	issues, err := client.FetchIssues(context.Background())
	if err != nil {
		t.Fatalf("FetchIssues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (malformed record skipped)", len(issues))
	}
	if issues[0].Key != "A-1" || issues[1].Key != "A-2" {
		t.Errorf("unexpected keys: %s, %s", issues[0].Key, issues[1].Key)
	}
}

func TestCloudClient_MissingIssuesCollection(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	})

	issues, err := client.FetchIssues(context.Background())
	if err != nil {
		t.Fatalf("FetchIssues: %v", err)
	}
	if issues == nil || len(issues) != 0 {
		t.Errorf("got %v, want empty non-nil slice", issues)
	}
}

func TestCloudClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		header string
	}{
		{http.StatusUnauthorized, ""},
		{http.StatusForbidden, ""},
		{http.StatusTooManyRequests, "30"},
		{http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if tt.header != "" {
				w.Header().Set("Retry-After", tt.header)
			}
			w.WriteHeader(tt.status)
		})

		_, err := client.FetchIssues(context.Background())
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("status %d: expected *FetchError, got %v", tt.status, err)
		}
		if fe.StatusCode != tt.status {
			t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.status)
		}
	}
}

func TestCloudClient_UndecodableBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.FetchIssues(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestCloudClient_EmptyBaseURL(t *testing.T) {
	client := NewClient(Credentials{Email: "e", APIToken: "t"}, Config{})
	if _, err := client.FetchIssues(context.Background()); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestCloudClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchIssues(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
