package wiki_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petasbytes/toolchat/internal/wiki"
)

func TestSummary_Success(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"title": "Alan Turing",
			"extract": "Alan Mathison Turing was an English mathematician.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Alan_Turing"}}
		}`))
	}))
	defer srv.Close()

	s, err := wiki.NewClient(srv.URL+"/").Summary(context.Background(), " Alan Turing ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotPath != "/page/summary/Alan_Turing" {
		t.Errorf("path: got %q", gotPath)
	}
	if !strings.HasPrefix(gotUA, "toolchat/") {
		t.Errorf("user agent: got %q", gotUA)
	}
	if s.Title != "Alan Turing" || !strings.Contains(s.Extract, "mathematician") || s.URL != "https://en.wikipedia.org/wiki/Alan_Turing" {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestSummary_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"not_found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := wiki.NewClient(srv.URL).Summary(context.Background(), "Nope")
	if !errors.Is(err, wiki.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSummary_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := wiki.NewClient(srv.URL).Summary(context.Background(), "Go")
	if err == nil || errors.Is(err, wiki.ErrNotFound) || !strings.Contains(err.Error(), "HTTP 500") {
		t.Fatalf("want HTTP 500 error, got %v", err)
	}
}

func TestSummary_EmptyTopic(t *testing.T) {
	if _, err := wiki.NewClient("http://unused").Summary(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty topic")
	}
}
