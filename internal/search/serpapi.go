package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/cache"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/worker"
)

// SerpAPIClient performs Google reverse image searches through SerpAPI.
// URL lookups go through GET /search.json; local files are posted as
// base64 form data to avoid URL size limits.
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	deps
}

// NewSerpAPIClient creates a reverse image search client.
func NewSerpAPIClient(cfg model.SearchConfig, store cache.Cache, limiter *worker.Limiter, cacheTTL time.Duration, verbose bool) *SerpAPIClient {
	baseURL := cfg.SerpAPIBaseURL
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}
	return &SerpAPIClient{
		apiKey:  cfg.SerpAPIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		deps:    newDeps(cfg, store, limiter, cacheTTL, verbose),
	}
}

// serpResponse is the subset of the SerpAPI payload the engine consumes.
type serpResponse struct {
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	Error        string     `json:"error,omitempty"`
	ImageResults []serpItem `json:"image_results"`
	InlineImages []serpItem `json:"inline_images"`
}

type serpItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	Snippet   string `json:"snippet"`
	Thumbnail string `json:"thumbnail"`
}

// SearchImageURL looks up prior appearances of a hosted image.
func (c *SerpAPIClient) SearchImageURL(ctx context.Context, imageURL string) ([]model.EvidenceItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: API key not configured")
	}
	if imageURL == "" {
		return nil, fmt.Errorf("serpapi: empty image URL")
	}

	key := cache.Key("serpapi", "google_reverse_image", imageURL)
	if data, found := c.cache.Get(key); found {
		c.logf("[serpapi] cache_hit image_url=%s", imageURL)
		return c.decode(data)
	}

	endpoint := c.baseURL + "/search.json"
	params := url.Values{}
	params.Set("engine", "google_reverse_image")
	params.Set("api_key", c.apiKey)
	params.Set("image_url", imageURL)

	if err := c.wait(ctx, endpoint); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: create request: %w", err)
	}
	return c.do(req, key)
}

// SearchImageFile looks up prior appearances of a local image file.
func (c *SerpAPIClient) SearchImageFile(ctx context.Context, path string) ([]model.EvidenceItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: API key not configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("serpapi: read image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	key := cache.Key("serpapi", "google_reverse_image", "content", encoded)
	if data, found := c.cache.Get(key); found {
		c.logf("[serpapi] cache_hit image_file=%s", path)
		return c.decode(data)
	}

	endpoint := c.baseURL + "/search"
	form := url.Values{}
	form.Set("engine", "google_reverse_image")
	form.Set("api_key", c.apiKey)
	form.Set("image_content", encoded)

	if err := c.wait(ctx, endpoint); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("serpapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, key)
}

func (c *SerpAPIClient) do(req *http.Request, cacheKey string) ([]model.EvidenceItem, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serpapi: read response: %w", err)
	}
	c.logf("[serpapi] status=%d bytes=%d", resp.StatusCode, len(body))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: status %d: %s", resp.StatusCode, preview(body))
	}

	items, err := c.decode(body)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(cacheKey, body, c.ttl); err != nil {
		c.logf("[serpapi] cache_write_failed: %v", err)
	}
	return items, nil
}

func (c *SerpAPIClient) decode(body []byte) ([]model.EvidenceItem, error) {
	var parsed serpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("serpapi: parse response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", parsed.Error)
	}

	var evidence []model.EvidenceItem
	for _, res := range parsed.ImageResults {
		evidence = append(evidence, evidenceOf(res))
	}
	for _, img := range parsed.InlineImages {
		evidence = append(evidence, evidenceOf(img))
	}

	usable := evidence[:0]
	for _, ev := range evidence {
		if ev.Usable() {
			usable = append(usable, ev)
		}
	}
	return usable, nil
}

func evidenceOf(item serpItem) model.EvidenceItem {
	return model.EvidenceItem{
		Title:     item.Title,
		Snippet:   item.Snippet,
		Link:      item.Link,
		Source:    item.Source,
		Date:      item.Date,
		Thumbnail: item.Thumbnail,
	}
}

func (c *SerpAPIClient) logf(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func preview(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max]
	}
	return s
}
