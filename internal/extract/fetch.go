package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// PageFetcher fetches a page of HTML for claim extraction, honoring the
// host's robots.txt.
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	mu     sync.RWMutex
	robots map[string]*robotstxt.RobotsData
}

// NewPageFetcher creates a fetcher with the given limits.
func NewPageFetcher(timeout time.Duration, userAgent string, maxBytes int64) *PageFetcher {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &PageFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch retrieves the page at rawURL. Disallowed paths return an error
// before any page request goes out.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	allowed, err := f.canFetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return string(body), nil
}

// canFetch checks robots.txt for the URL's host. An unreachable or
// unparsable robots.txt allows the fetch.
func (f *PageFetcher) canFetch(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	data, err := f.robotsData(ctx, parsed)
	if err != nil {
		return true, nil
	}
	return data.TestAgent(parsed.Path, f.userAgent), nil
}

// robotsData fetches and caches robots.txt for a host.
func (f *PageFetcher) robotsData(ctx context.Context, page *url.URL) (*robotstxt.RobotsData, error) {
	f.mu.RLock()
	data, exists := f.robots[page.Host]
	f.mu.RUnlock()
	if exists {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", page.Scheme, page.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err = robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	f.mu.Lock()
	if f.robots == nil {
		f.robots = make(map[string]*robotstxt.RobotsData)
	}
	f.robots[page.Host] = data
	f.mu.Unlock()

	return data, nil
}
