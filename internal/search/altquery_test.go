package search

import (
	"context"
	"errors"
	"testing"

	"github.com/mlevchuk/veracity/internal/model"
)

type fakeProvider struct {
	response string
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.response, p.err
}

type scriptedSearcher struct {
	byQuery map[string][]model.EvidenceItem
	queries []string
}

func (s *scriptedSearcher) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	s.queries = append(s.queries, query)
	return s.byQuery[query], nil
}

func TestAlternatives_ParsesAndFilters(t *testing.T) {
	provider := &fakeProvider{response: `{"broader_query": "Astronomer CEO resignation", "simpler_query": "original query"}`}
	r := NewQueryRewriter(provider, false)

	queries := r.Alternatives(context.Background(), "original query")
	if len(queries) != 1 || queries[0] != "Astronomer CEO resignation" {
		t.Errorf("Expected only the broader query, got %v", queries)
	}
}

func TestAlternatives_NilProviderOrFailure(t *testing.T) {
	if got := NewQueryRewriter(nil, false).Alternatives(context.Background(), "q"); got != nil {
		t.Errorf("Expected nil for nil provider, got %v", got)
	}
	failing := NewQueryRewriter(&fakeProvider{err: errors.New("boom")}, false)
	if got := failing.Alternatives(context.Background(), "q"); got != nil {
		t.Errorf("Expected nil on provider failure, got %v", got)
	}
}

func TestSearchWithFallback_RetriesRewrites(t *testing.T) {
	searcher := &scriptedSearcher{byQuery: map[string][]model.EvidenceItem{
		"broader": {{Title: "hit", Link: "https://a.example.com"}},
	}}
	provider := &fakeProvider{response: `{"broader_query": "broader"}`}
	r := NewQueryRewriter(provider, false)

	results, err := r.SearchWithFallback(context.Background(), searcher, "exact phrasing nobody used")
	if err != nil {
		t.Fatalf("SearchWithFallback failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected fallback hit, got %d results", len(results))
	}
	if len(searcher.queries) != 2 || searcher.queries[1] != "broader" {
		t.Errorf("Expected original then broader query, got %v", searcher.queries)
	}
}

func TestSearchWithFallback_FirstHitShortCircuits(t *testing.T) {
	searcher := &scriptedSearcher{byQuery: map[string][]model.EvidenceItem{
		"direct": {{Title: "hit", Link: "https://a.example.com"}},
	}}
	r := NewQueryRewriter(&fakeProvider{response: `{"broader_query": "unused"}`}, false)

	results, err := r.SearchWithFallback(context.Background(), searcher, "direct")
	if err != nil {
		t.Fatalf("SearchWithFallback failed: %v", err)
	}
	if len(results) != 1 || len(searcher.queries) != 1 {
		t.Errorf("Expected single query, got results=%d queries=%v", len(results), searcher.queries)
	}
}
