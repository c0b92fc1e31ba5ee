package worker

import (
	"context"

	"github.com/mlevchuk/veracity/internal/model"
)

// Checker verifies a single claim. Failures surface as error-verdict
// records, never as Go errors, so a pool run always yields one record
// per claim.
type Checker interface {
	VerifyClaim(ctx context.Context, claim model.ClaimInput) *model.VerificationResult
}

// VerifyJob runs one claim through the checker.
type VerifyJob struct {
	Index   int
	Claim   model.ClaimInput
	Checker Checker
}

// Execute runs the verification.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	return &VerifyOutcome{
		Index:  j.Index,
		Claim:  j.Claim,
		Result: j.Checker.VerifyClaim(ctx, j.Claim),
	}
}

// VerifyOutcome pairs a verification record with its input position.
type VerifyOutcome struct {
	Index  int
	Claim  model.ClaimInput
	Result *model.VerificationResult
}

// GetError always returns nil; verification failures are encoded in the
// result record itself.
func (o *VerifyOutcome) GetError() error { return nil }

// ClaimRunner verifies many claims concurrently, one pool job per claim.
type ClaimRunner struct {
	checker     Checker
	concurrency int
}

// NewClaimRunner creates a runner with the given parallelism.
func NewClaimRunner(checker Checker, concurrency int) *ClaimRunner {
	return &ClaimRunner{checker: checker, concurrency: concurrency}
}

// Run verifies all claims and returns results aligned with the input
// order, one per claim.
func (r *ClaimRunner) Run(ctx context.Context, claims []model.ClaimInput) []*model.VerificationResult {
	if len(claims) == 0 {
		return []*model.VerificationResult{}
	}

	pool := NewPool(r.concurrency)
	pool.Start()

	// Drain results while submitting. The pool's channels buffer only a
	// couple of entries per worker, so submitting a large claim set
	// before reading anything would fill both and block forever.
	ordered := make([]*model.VerificationResult, len(claims))
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for res := range pool.Results() {
			outcome := res.(*VerifyOutcome)
			if outcome.Index >= 0 && outcome.Index < len(ordered) {
				ordered[outcome.Index] = outcome.Result
			}
		}
	}()

	for i, claim := range claims {
		pool.Submit(&VerifyJob{Index: i, Claim: claim, Checker: r.checker})
	}
	pool.Close()
	<-drained

	return ordered
}
