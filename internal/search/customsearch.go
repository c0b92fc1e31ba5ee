package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mlevchuk/veracity/internal/cache"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/worker"
)

// CustomSearchClient queries the Google Custom Search API. The configured
// engine is expected to be scoped to fact-checking and news sites.
type CustomSearchClient struct {
	apiKey     string
	cx         string
	baseURL    string
	maxResults int
	deps
}

// NewCustomSearchClient creates a text search client.
func NewCustomSearchClient(cfg model.SearchConfig, store cache.Cache, limiter *worker.Limiter, cacheTTL time.Duration, verbose bool) *CustomSearchClient {
	baseURL := cfg.GoogleBaseURL
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/customsearch/v1"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 10
	}
	return &CustomSearchClient{
		apiKey:     cfg.GoogleAPIKey,
		cx:         cfg.GoogleCX,
		baseURL:    baseURL,
		maxResults: maxResults,
		deps:       newDeps(cfg, store, limiter, cacheTTL, verbose),
	}
}

type customSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Search runs one query and maps the result items to evidence.
func (c *CustomSearchClient) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	if c.apiKey == "" || c.cx == "" {
		return nil, fmt.Errorf("customsearch: API key and engine ID required")
	}
	if query == "" {
		return nil, fmt.Errorf("customsearch: empty query")
	}

	key := cache.Key("customsearch", query, strconv.Itoa(c.maxResults), c.cx)
	if data, found := c.cache.Get(key); found {
		c.logf("[customsearch] cache_hit query=%q", query)
		return c.decode(data)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("num", strconv.Itoa(c.maxResults))

	if err := c.wait(ctx, c.baseURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("customsearch: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customsearch: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("customsearch: read response: %w", err)
	}
	c.logf("[customsearch] status=%d query=%q", resp.StatusCode, query)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("customsearch: status %d: %s", resp.StatusCode, preview(body))
	}

	items, err := c.decode(body)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(key, body, c.ttl); err != nil {
		c.logf("[customsearch] cache_write_failed: %v", err)
	}
	return items, nil
}

func (c *CustomSearchClient) decode(body []byte) ([]model.EvidenceItem, error) {
	var parsed customSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("customsearch: parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("customsearch: %d %s", parsed.Error.Code, parsed.Error.Message)
	}

	var evidence []model.EvidenceItem
	for _, item := range parsed.Items {
		ev := model.EvidenceItem{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
			Source:  item.DisplayLink,
		}
		if ev.Usable() {
			evidence = append(evidence, ev)
		}
	}
	return evidence, nil
}

func (c *CustomSearchClient) logf(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
