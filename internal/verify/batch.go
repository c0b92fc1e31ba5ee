package verify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/decompose"
	"github.com/mlevchuk/veracity/internal/llm"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/policy"
	"github.com/mlevchuk/veracity/internal/rank"
	"github.com/mlevchuk/veracity/internal/search"
	"github.com/mlevchuk/veracity/internal/validate"
)

// Batch adjudicates many claims with one provider call per chunk instead
// of one per claim. Every claim still gets the full validate-then-decide
// treatment; only the decomposition round-trips are pooled.
type Batch struct {
	cfg       *model.Config
	provider  llm.Provider
	searcher  search.TextSearcher
	rewriter  *search.QueryRewriter
	ranker    *rank.Ranker
	validator *validate.Validator
	policy    *policy.Policy
	verbose   bool
}

// NewBatch creates a batch adjudicator.
func NewBatch(cfg *model.Config, searcher search.TextSearcher, rewriter *search.QueryRewriter, provider llm.Provider) *Batch {
	return &Batch{
		cfg:       cfg,
		provider:  provider,
		searcher:  searcher,
		rewriter:  rewriter,
		ranker:    rank.NewRanker(cfg.Rank),
		validator: validate.NewValidator(),
		policy:    policy.NewPolicy(cfg.Policy, cfg.Rank.LowPriorityDomains),
		verbose:   cfg.Output.Verbose,
	}
}

// batchItem is one claim with its gathered evidence.
type batchItem struct {
	claim     model.ClaimInput
	evidence  []model.EvidenceItem
	searchErr error
}

// Verify adjudicates all claims and returns exactly one result per claim,
// in input order. An empty input yields an empty, non-nil slice.
func (b *Batch) Verify(ctx context.Context, claims []model.ClaimInput) []*model.VerificationResult {
	results := make([]*model.VerificationResult, 0, len(claims))
	if len(claims) == 0 {
		return results
	}

	size := b.cfg.Batch.Size
	if size <= 0 {
		size = 15
	}
	for start := 0; start < len(claims); start += size {
		end := start + size
		if end > len(claims) {
			end = len(claims)
		}
		results = append(results, b.verifyChunk(ctx, claims[start:end])...)
	}
	return results
}

func (b *Batch) verifyChunk(ctx context.Context, claims []model.ClaimInput) []*model.VerificationResult {
	items := b.gather(ctx, claims)

	adjudications := b.decomposeBatch(ctx, items)
	if adjudications == nil {
		return b.fallback(items)
	}

	results := make([]*model.VerificationResult, len(items))
	for i, item := range items {
		if item.searchErr != nil {
			results[i] = b.errorResult(item.claim, item.searchErr)
			continue
		}
		adj := adjudications[i]
		var validation *model.ValidationResult
		if adj != nil {
			validation = b.validator.Validate(item.claim.Text(), item.evidence, adj.ClaimParse)
		}
		results[i] = b.policy.Decide(policy.Input{
			ClaimText:    item.claim.Text(),
			ClaimDate:    item.claim.ClaimDate,
			Evidence:     item.evidence,
			Adjudication: adj,
			Validation:   validation,
		})
	}
	return results
}

// gather collects and ranks evidence per claim. Search failures are
// recorded per item so one bad query never sinks the batch.
func (b *Batch) gather(ctx context.Context, claims []model.ClaimInput) []batchItem {
	items := make([]batchItem, len(claims))
	for i, claim := range claims {
		items[i].claim = claim
		query := claim.Text()
		if query == "" {
			items[i].searchErr = fmt.Errorf("empty claim text")
			continue
		}
		if b.searcher == nil {
			items[i].searchErr = fmt.Errorf("text search not configured")
			continue
		}

		var (
			evidence []model.EvidenceItem
			err      error
		)
		if b.rewriter != nil {
			evidence, err = b.rewriter.SearchWithFallback(ctx, b.searcher, query)
		} else {
			evidence, err = b.searcher.Search(ctx, query)
		}
		if err != nil {
			items[i].searchErr = err
			continue
		}
		// Rank first, then cap. The capped slice is what the prompt
		// shows, so citation indices stay valid everywhere.
		ranked := b.ranker.Rank(evidence, query, b.cfg.Rank.TopK)
		if limit := b.evidenceCap(); len(ranked) > limit {
			ranked = ranked[:limit]
		}
		items[i].evidence = ranked
	}
	return items
}

// decomposeBatch runs one provider call for the whole chunk. The response
// is padded or truncated to the chunk length; a nil return means the call
// itself failed and the keyword fallback should take over.
func (b *Batch) decomposeBatch(ctx context.Context, items []batchItem) []*decompose.Adjudication {
	if b.provider == nil {
		return nil
	}

	prompt := buildBatchPrompt(items)
	text, err := b.provider.Generate(ctx, prompt)
	if err != nil {
		b.logf("[batch] provider error: %v", err)
		return nil
	}

	var parsed []*decompose.Adjudication
	if err := llm.ExtractJSON(text, &parsed); err != nil {
		b.logf("[batch] %v", err)
		return nil
	}
	if len(parsed) != len(items) {
		b.logf("[batch] expected %d adjudications, got %d", len(items), len(parsed))
	}
	for len(parsed) < len(items) {
		parsed = append(parsed, nil)
	}
	parsed = parsed[:len(items)]

	for _, adj := range parsed {
		if adj != nil {
			decompose.Normalize(adj)
		}
	}
	return parsed
}

// fallback produces one keyword-derived result per item after a failed
// batch call.
func (b *Batch) fallback(items []batchItem) []*model.VerificationResult {
	b.logf("[batch] falling back to keyword analysis for %d claims", len(items))
	results := make([]*model.VerificationResult, len(items))
	for i, item := range items {
		if item.searchErr != nil {
			results[i] = b.errorResult(item.claim, item.searchErr)
			continue
		}
		results[i] = fallbackAnalyze(item.claim, item.evidence)
	}
	return results
}

func (b *Batch) evidenceCap() int {
	n := b.cfg.Batch.EvidencePerItem
	if n <= 0 {
		n = 3
	}
	return n
}

func (b *Batch) errorResult(claim model.ClaimInput, err error) *model.VerificationResult {
	return &model.VerificationResult{
		Verdict:          model.VerdictError,
		Message:          fmt.Sprintf("Error during fact-checking: %v", err),
		Confidence:       "low",
		Sources:          model.SourceListOf(nil, 0),
		ClaimText:        claim.Text(),
		VerificationDate: time.Now().UTC().Format(time.RFC3339),
		Details: &model.ErrorDetails{
			Error:        err.Error(),
			ClaimContext: claim.ClaimContext,
			ClaimDate:    claim.ClaimDate,
		},
	}
}

// buildBatchPrompt renders every claim with its capped evidence and asks
// for a JSON array of adjudication objects in input order, one per claim,
// in the same shape the single-claim flow parses.
func buildBatchPrompt(items []batchItem) string {
	var sb strings.Builder
	sb.WriteString(`You are a fact-checking assistant. Analyze each claim below against its own evidence items only; never mix evidence across claims.

For EVERY claim, produce one adjudication object with keys:
  - verdict: one of 'true' | 'false' | 'uncertain'
  - relation_verdict: one of 'true' | 'false' | 'uncertain' (whether the stated relation holds)
  - summary: <= 2 sentences, plain text
  - confidence: one of 'high' | 'medium' | 'low'
  - top_sources: array of up to 3 objects {title, link}
  - claim_parse: {entities, roles, relation {predicate, subject, object}, timeframe {year, month}, location, citations {entities, roles, relation, timeframe, location}}
Citation indices refer to that claim's own evidence list. A claim with no evidence gets verdict 'uncertain' and empty citations.

`)
	for i, item := range items {
		fmt.Fprintf(&sb, "--- CLAIM %d ---\n", i+1)
		fmt.Fprintf(&sb, "Claim text: %s\n", item.claim.Text())
		if item.claim.ClaimDate != "" {
			fmt.Fprintf(&sb, "Claim date: %s\n", item.claim.ClaimDate)
		}
		evidence := item.evidence
		if len(evidence) == 0 {
			sb.WriteString("Evidence: none found\n\n")
			continue
		}
		sb.WriteString("Evidence:\n")
		sb.WriteString(decompose.FormatEvidence(evidence))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Respond with a JSON array of exactly %d adjudication objects in the same order as the claims above. Do not include code fences or extra text.\n", len(items))
	return sb.String()
}

func (b *Batch) logf(format string, args ...any) {
	if b.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
