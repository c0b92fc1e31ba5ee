package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/search"
)

func newTestBatch(searcher *fakeSearcher, provider *queuedProvider, mutate func(*model.Config)) *Batch {
	cfg := model.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	var text search.TextSearcher
	if searcher != nil {
		text = searcher
	}
	if provider == nil {
		return NewBatch(cfg, text, nil, nil)
	}
	return NewBatch(cfg, text, nil, provider)
}

func TestBatchVerify_EmptyInput(t *testing.T) {
	b := newTestBatch(&fakeSearcher{}, &queuedProvider{responses: []string{"[]"}}, nil)
	results := b.Verify(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil result slice, got %v", results)
	}
}

func TestBatchVerify_OneResultPerClaim(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]model.EvidenceItem{
		weddingClaim: weddingEvidence(),
	}}
	provider := &queuedProvider{responses: []string{"[" + weddingAdjudication + ", null, null]"}}
	b := newTestBatch(searcher, provider, nil)

	claims := []model.ClaimInput{
		{TextInput: weddingClaim},
		{TextInput: "second claim with no coverage"},
		{TextInput: "third claim with no coverage"},
	}
	results := b.Verify(context.Background(), claims)
	if len(results) != len(claims) {
		t.Fatalf("Expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("Result %d is nil", i)
		}
		if r.ClaimText != claims[i].TextInput {
			t.Errorf("Result %d out of order: %q", i, r.ClaimText)
		}
	}
	if results[0].Verdict != model.VerdictTrue {
		t.Errorf("Expected first claim true, got %s", results[0].Verdict)
	}
	// Claims without evidence resolve to no_content regardless of the
	// model's output for them.
	if results[1].Verdict != model.VerdictNoContent {
		t.Errorf("Expected no_content for uncovered claim, got %s", results[1].Verdict)
	}
}

func TestBatchVerify_PadsShortResponse(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]model.EvidenceItem{
		"first":  weddingEvidence(),
		"second": weddingEvidence(),
	}}
	// Model returns only one adjudication for two claims.
	provider := &queuedProvider{responses: []string{"[" + weddingAdjudication + "]"}}
	b := newTestBatch(searcher, provider, nil)

	results := b.Verify(context.Background(), []model.ClaimInput{
		{TextInput: "first"},
		{TextInput: "second"},
	})
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[1].Verdict != model.VerdictUncertain {
		t.Errorf("Expected padded claim to resolve uncertain, got %s", results[1].Verdict)
	}
}

func TestBatchVerify_KeywordFallbackOnGarbage(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]model.EvidenceItem{
		"the moon landing was staged": {
			{Title: "Moon landing hoax claims debunked", Snippet: "The claim is false", Link: "https://factcheck.example.com/a"},
		},
	}}
	provider := &queuedProvider{responses: []string{"I could not process this batch."}}
	b := newTestBatch(searcher, provider, nil)

	results := b.Verify(context.Background(), []model.ClaimInput{{TextInput: "the moon landing was staged"}})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Verdict != model.VerdictFalse {
		t.Errorf("Expected keyword fallback to flag false, got %s", results[0].Verdict)
	}
	if results[0].Confidence != "low" {
		t.Errorf("Expected low confidence from fallback, got %s", results[0].Confidence)
	}
}

func TestBatchVerify_ProviderErrorFallsBack(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]model.EvidenceItem{
		"claim": {{Title: "Disputed reports", Snippet: "unverified", Link: "https://news.example.com/a"}},
	}}
	provider := &queuedProvider{err: errors.New("rate limited")}
	b := newTestBatch(searcher, provider, nil)

	results := b.Verify(context.Background(), []model.ClaimInput{{TextInput: "claim"}})
	if len(results) != 1 || results[0].Verdict != model.VerdictUncertain {
		t.Errorf("Expected uncertain fallback, got %v", results)
	}
}

func TestBatchVerify_SearchErrorBecomesErrorVerdict(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("network down")}
	provider := &queuedProvider{responses: []string{"[null]"}}
	b := newTestBatch(searcher, provider, nil)

	results := b.Verify(context.Background(), []model.ClaimInput{{TextInput: "claim"}})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Verdict != model.VerdictError {
		t.Errorf("Expected error verdict, got %s", results[0].Verdict)
	}
	if results[0].Details == nil {
		t.Error("Expected error details")
	}
}

func TestBatchVerify_ChunksBySize(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]model.EvidenceItem{}}
	provider := &queuedProvider{responses: []string{"[null, null]", "[null]"}}
	b := newTestBatch(searcher, provider, func(cfg *model.Config) {
		cfg.Batch.Size = 2
	})

	results := b.Verify(context.Background(), []model.ClaimInput{
		{TextInput: "one"}, {TextInput: "two"}, {TextInput: "three"},
	})
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if provider.calls != 2 {
		t.Errorf("Expected 2 provider calls for 3 claims at size 2, got %d", provider.calls)
	}
}

func TestBuildBatchPrompt_IncludesClaimsAndEvidence(t *testing.T) {
	items := []batchItem{
		{claim: model.ClaimInput{TextInput: "first claim", ClaimDate: "2024-05-01"}, evidence: weddingEvidence()},
		{claim: model.ClaimInput{TextInput: "second claim"}},
	}
	prompt := buildBatchPrompt(items)

	for _, want := range []string{"--- CLAIM 1 ---", "--- CLAIM 2 ---", "first claim", "2024-05-01", "Evidence: none found", "JSON array of exactly 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "news.example.com") {
		t.Error("Prompt missing evidence links")
	}
}
