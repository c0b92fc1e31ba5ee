// Package verify orchestrates the claim-to-verdict flow: gather evidence,
// rank it, decompose the claim, audit the citations, and decide. Nothing
// in this package panics on malformed inputs or collaborator failures; the
// worst case is an error-verdict record.
package verify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mlevchuk/veracity/internal/decompose"
	"github.com/mlevchuk/veracity/internal/llm"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/policy"
	"github.com/mlevchuk/veracity/internal/rank"
	"github.com/mlevchuk/veracity/internal/search"
	"github.com/mlevchuk/veracity/internal/validate"
)

// Verifier runs single-claim verification.
type Verifier struct {
	cfg        *model.Config
	text       search.TextSearcher
	image      search.ImageSearcher
	rewriter   *search.QueryRewriter
	ranker     *rank.Ranker
	decomposer *decompose.Decomposer
	validator  *validate.Validator
	policy     *policy.Policy
	verbose    bool
}

// New creates a verifier. Either searcher may be nil; the corresponding
// entry points then return error-verdict records instead of panicking.
func New(cfg *model.Config, text search.TextSearcher, image search.ImageSearcher, rewriter *search.QueryRewriter, provider llm.Provider) *Verifier {
	verbose := cfg.Output.Verbose
	return &Verifier{
		cfg:        cfg,
		text:       text,
		image:      image,
		rewriter:   rewriter,
		ranker:     rank.NewRanker(cfg.Rank),
		decomposer: decompose.NewDecomposer(provider, verbose),
		validator:  validate.NewValidator(),
		policy:     policy.NewPolicy(cfg.Policy, cfg.Rank.LowPriorityDomains),
		verbose:    verbose,
	}
}

// VerifyClaim satisfies the worker pool's checker contract.
func (v *Verifier) VerifyClaim(ctx context.Context, claim model.ClaimInput) *model.VerificationResult {
	return v.VerifyText(ctx, claim)
}

// VerifyText verifies a text claim end to end.
func (v *Verifier) VerifyText(ctx context.Context, claim model.ClaimInput) *model.VerificationResult {
	claimText := claim.Text()
	if claimText == "" {
		return v.errorResult(claim, fmt.Errorf("empty claim text"))
	}
	if v.text == nil {
		return v.errorResult(claim, fmt.Errorf("text search not configured"))
	}

	evidence, err := v.searchText(ctx, claimText)
	if err != nil {
		return v.errorResult(claim, err)
	}
	return v.adjudicate(ctx, claimText, claim.ClaimDate, evidence)
}

// ImageRequest describes an image verification. Exactly one of ImagePath
// and ImageURL should be set; ClaimContext carries the caption or claim
// the image is said to depict.
type ImageRequest struct {
	ImagePath    string
	ImageURL     string
	ClaimContext string
	ClaimDate    string
}

// GatherImageEvidence runs only the reverse image search and returns the
// ranked evidence, for callers that want the raw material without a
// verdict.
func (v *Verifier) GatherImageEvidence(ctx context.Context, req ImageRequest) ([]model.EvidenceItem, error) {
	if v.image == nil {
		return nil, fmt.Errorf("image search not configured")
	}
	var (
		evidence []model.EvidenceItem
		err      error
	)
	switch {
	case req.ImageURL != "":
		evidence, err = v.image.SearchImageURL(ctx, req.ImageURL)
	case req.ImagePath != "":
		evidence, err = v.image.SearchImageFile(ctx, req.ImagePath)
	default:
		return nil, fmt.Errorf("image path or URL required")
	}
	if err != nil {
		return nil, err
	}
	return v.ranker.Rank(evidence, req.ClaimContext, v.cfg.Rank.TopK), nil
}

// VerifyImage verifies that an image matches its claimed context.
func (v *Verifier) VerifyImage(ctx context.Context, req ImageRequest) *model.VerificationResult {
	claim := model.ClaimInput{
		TextInput:    req.ClaimContext,
		ClaimContext: req.ClaimContext,
		ClaimDate:    req.ClaimDate,
	}
	if v.image == nil {
		return v.errorResult(claim, fmt.Errorf("image search not configured"))
	}

	var (
		evidence []model.EvidenceItem
		err      error
	)
	switch {
	case req.ImageURL != "":
		evidence, err = v.image.SearchImageURL(ctx, req.ImageURL)
	case req.ImagePath != "":
		evidence, err = v.image.SearchImageFile(ctx, req.ImagePath)
	default:
		err = fmt.Errorf("image path or URL required")
	}
	if err != nil {
		return v.errorResult(claim, err)
	}
	return v.adjudicate(ctx, req.ClaimContext, req.ClaimDate, evidence)
}

// searchText runs the query with alternative-query retries when a
// rewriter is available.
func (v *Verifier) searchText(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	if v.rewriter != nil {
		return v.rewriter.SearchWithFallback(ctx, v.text, query)
	}
	return v.text.Search(ctx, query)
}

// adjudicate is the shared back half of every verification: rank the raw
// evidence, decompose the claim against it, audit the parse, decide.
func (v *Verifier) adjudicate(ctx context.Context, claimText, claimDate string, evidence []model.EvidenceItem) *model.VerificationResult {
	ranked := v.ranker.Rank(evidence, claimText, v.cfg.Rank.TopK)
	v.logf("[verify] evidence=%d ranked=%d claim=%q", len(evidence), len(ranked), claimText)

	if len(ranked) == 0 {
		return v.policy.Decide(policy.Input{ClaimText: claimText, ClaimDate: claimDate})
	}

	adj := v.decomposer.Decompose(ctx, claimText, claimDate, ranked)
	var validation *model.ValidationResult
	if adj != nil {
		validation = v.validator.Validate(claimText, ranked, adj.ClaimParse)
		v.logf("[verify] validator passed=%v reasons=%v", validation.Passed, validation.Reasons)
	}

	return v.policy.Decide(policy.Input{
		ClaimText:    claimText,
		ClaimDate:    claimDate,
		Evidence:     ranked,
		Adjudication: adj,
		Validation:   validation,
	})
}

// errorResult encodes a failure as a terminal record.
func (v *Verifier) errorResult(claim model.ClaimInput, err error) *model.VerificationResult {
	v.logf("[verify] error claim=%q: %v", claim.Text(), err)
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

func (v *Verifier) logf(format string, args ...any) {
	if v.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
