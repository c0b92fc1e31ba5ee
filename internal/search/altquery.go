package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mlevchuk/veracity/internal/llm"
	"github.com/mlevchuk/veracity/internal/model"
)

// QueryRewriter asks the model for broader reformulations when the
// original query returns nothing. Rewrites strip assumptions and keep the
// key entities and events.
type QueryRewriter struct {
	provider llm.Provider
	verbose  bool
}

// NewQueryRewriter creates a rewriter. A nil provider disables rewriting.
func NewQueryRewriter(provider llm.Provider, verbose bool) *QueryRewriter {
	return &QueryRewriter{provider: provider, verbose: verbose}
}

type altQueries struct {
	BroaderQuery string `json:"broader_query"`
	SimplerQuery string `json:"simpler_query"`
}

// Alternatives returns up to two reformulated queries, never echoing the
// original. Rewriting failures yield an empty slice, not an error: the
// caller treats missing alternatives as exhausted search.
func (r *QueryRewriter) Alternatives(ctx context.Context, query string) []string {
	if r.provider == nil || query == "" {
		return nil
	}

	response, err := r.provider.Generate(ctx, rewritePrompt(query))
	if err != nil {
		r.logf("[altquery] generate_failed: %v", err)
		return nil
	}
	var alt altQueries
	if err := llm.ExtractJSON(response, &alt); err != nil {
		r.logf("[altquery] parse_failed: %v", err)
		return nil
	}

	var queries []string
	for _, q := range []string{alt.BroaderQuery, alt.SimplerQuery} {
		q = strings.TrimSpace(q)
		if q != "" && !strings.EqualFold(q, query) {
			queries = append(queries, q)
		}
	}
	return queries
}

// SearchWithFallback runs the query, then the rewritten alternatives, and
// returns the first non-empty result set.
func (r *QueryRewriter) SearchWithFallback(ctx context.Context, searcher TextSearcher, query string) ([]model.EvidenceItem, error) {
	results, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	for _, alt := range r.Alternatives(ctx, query) {
		r.logf("[altquery] retry query=%q", alt)
		results, err = searcher.Search(ctx, alt)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	return nil, nil
}

func rewritePrompt(query string) string {
	return fmt.Sprintf(`You are a search query optimizer. Given a fact-checking query that returned no results, create alternative queries that might find relevant information.

ORIGINAL QUERY: %q

Create two alternatives:
1. A BROADER query that removes specific assumptions and focuses on key entities and events.
2. A SIMPLER query that keeps only the most distinctive terms.

Examples:
- "Is it true the CEO of Astronomer resigned because of toxic workplace allegations?"
  Broader: "Astronomer CEO resignation"

- "Did Apple release a new iPhone with 5G in 2023?"
  Broader: "Apple iPhone 2023 release"

Respond in this exact JSON format:
{
    "broader_query": "your broader query here",
    "simpler_query": "your simpler query here"
}`, query)
}

func (r *QueryRewriter) logf(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
