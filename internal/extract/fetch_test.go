package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func pageServer(t *testing.T, robots string, robotsStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if robotsStatus != http.StatusOK {
			w.WriteHeader(robotsStatus)
			return
		}
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>Scientists confirmed the finding.</body></html>"))
	})
	mux.HandleFunc("/private/report", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>hidden</body></html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestPageFetcher_FetchesAllowedPage(t *testing.T) {
	server := pageServer(t, "User-agent: *\nDisallow: /private/\n", http.StatusOK)
	fetcher := NewPageFetcher(5*time.Second, "Veracity/0.1", 0)

	body, err := fetcher.Fetch(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.Contains(body, "Scientists confirmed") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestPageFetcher_RobotsDisallowBlocksFetch(t *testing.T) {
	server := pageServer(t, "User-agent: *\nDisallow: /private/\n", http.StatusOK)
	fetcher := NewPageFetcher(5*time.Second, "Veracity/0.1", 0)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/private/report")
	if err == nil {
		t.Fatal("expected disallowed path to fail")
	}
	if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("expected robots.txt error, got: %v", err)
	}
}

func TestPageFetcher_MissingRobotsAllows(t *testing.T) {
	server := pageServer(t, "", http.StatusNotFound)
	fetcher := NewPageFetcher(5*time.Second, "Veracity/0.1", 0)

	body, err := fetcher.Fetch(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if body == "" {
		t.Error("expected page content")
	}
}

func TestPageFetcher_NonOKPageStatus(t *testing.T) {
	server := pageServer(t, "User-agent: *\nAllow: /\n", http.StatusOK)
	fetcher := NewPageFetcher(5*time.Second, "Veracity/0.1", 0)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing")
	if err == nil {
		t.Fatal("expected status error for missing page")
	}
}

func TestPageFetcher_CachesRobotsPerHost(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, "Veracity/0.1", 0)
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(context.Background(), server.URL+"/page"); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("expected one robots.txt request, got %d", hits)
	}
}
