// Package search talks to the external evidence providers: SerpAPI for
// reverse image search and Google Custom Search for text claims. Both
// clients share the response cache and the per-host rate limiter.
package search

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mlevchuk/veracity/internal/cache"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/worker"
)

// TextSearcher finds published coverage for a text claim.
type TextSearcher interface {
	Search(ctx context.Context, query string) ([]model.EvidenceItem, error)
}

// ImageSearcher finds prior appearances of an image.
type ImageSearcher interface {
	SearchImageURL(ctx context.Context, imageURL string) ([]model.EvidenceItem, error)
	SearchImageFile(ctx context.Context, path string) ([]model.EvidenceItem, error)
}

// newHTTPClient builds the shared outbound client, honoring the proxy
// settings when present.
func newHTTPClient(cfg model.SearchConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	transport := http.DefaultTransport
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		proxied := http.DefaultTransport.(*http.Transport).Clone()
		proxied.Proxy = func(req *http.Request) (*url.URL, error) {
			raw := cfg.HTTPSProxy
			if req.URL.Scheme == "http" && cfg.HTTPProxy != "" {
				raw = cfg.HTTPProxy
			}
			if raw == "" {
				return nil, nil
			}
			return url.Parse(raw)
		}
		transport = proxied
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// deps bundles the collaborators shared by both search clients.
type deps struct {
	client  *http.Client
	cache   cache.Cache
	limiter *worker.Limiter
	ttl     time.Duration
	verbose bool
}

func newDeps(cfg model.SearchConfig, store cache.Cache, limiter *worker.Limiter, ttl time.Duration, verbose bool) deps {
	if store == nil {
		store = cache.Nop{}
	}
	return deps{
		client:  newHTTPClient(cfg),
		cache:   store,
		limiter: limiter,
		ttl:     ttl,
		verbose: verbose,
	}
}

func (d deps) wait(ctx context.Context, rawURL string) error {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx, rawURL)
}
