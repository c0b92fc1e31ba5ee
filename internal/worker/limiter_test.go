package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://serpapi.com/search.json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	// A different host gets its own bucket.
	if err := limiter.Wait(ctx, "https://www.googleapis.com/customsearch/v1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://serpapi.com/a") {
		t.Error("expected first request to pass")
	}
	if limiter.Allow("https://serpapi.com/b") {
		t.Error("expected second request to same host to be limited")
	}
	if !limiter.Allow("https://other.example.com/a") {
		t.Error("expected request to a fresh host to pass")
	}
}

func TestLimiter_WaitCancellation(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Drain the burst, then expect the next wait to hit the deadline.
	_ = limiter.Wait(ctx, "https://slow.example.com/")
	if err := limiter.Wait(ctx, "https://slow.example.com/"); err == nil {
		t.Error("expected context deadline error")
	}
}

type stubChecker struct{}

func (stubChecker) VerifyClaim(ctx context.Context, claim model.ClaimInput) *model.VerificationResult {
	return &model.VerificationResult{
		Verdict:   model.VerdictUncertain,
		ClaimText: claim.TextInput,
	}
}

func TestClaimRunner_PreservesOrder(t *testing.T) {
	claims := []model.ClaimInput{
		{TextInput: "first"},
		{TextInput: "second"},
		{TextInput: "third"},
	}
	runner := NewClaimRunner(stubChecker{}, 3)
	results := runner.Run(context.Background(), claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("missing result at %d", i)
		}
		if r.ClaimText != claims[i].TextInput {
			t.Errorf("result %d: expected %q, got %q", i, claims[i].TextInput, r.ClaimText)
		}
	}
}

func TestClaimRunner_EmptyInput(t *testing.T) {
	runner := NewClaimRunner(stubChecker{}, 2)
	results := runner.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d", len(results))
	}
}

// A single worker buffers only two jobs and two results, so a claim set
// this size can only finish if results are drained while submitting.
func TestClaimRunner_ManyClaimsExceedBuffers(t *testing.T) {
	claims := make([]model.ClaimInput, 25)
	for i := range claims {
		claims[i] = model.ClaimInput{TextInput: fmt.Sprintf("claim %d", i)}
	}
	runner := NewClaimRunner(stubChecker{}, 1)

	done := make(chan []*model.VerificationResult, 1)
	go func() {
		done <- runner.Run(context.Background(), claims)
	}()

	var results []*model.VerificationResult
	select {
	case results = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not finish: submissions blocked on full pool buffers")
	}

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("missing result at %d", i)
		}
		if r.ClaimText != claims[i].TextInput {
			t.Errorf("result %d: expected %q, got %q", i, claims[i].TextInput, r.ClaimText)
		}
	}
}
