package policy

import (
	"testing"

	"github.com/mlevchuk/veracity/internal/decompose"
	"github.com/mlevchuk/veracity/internal/model"
)

func testPolicy() *Policy {
	return NewPolicy(model.DefaultConfig().Policy, model.DefaultLowPriorityDomains())
}

func twoDomainEvidence() []model.EvidenceItem {
	return []model.EvidenceItem{
		{Title: "First report", Snippet: "details", Link: "https://news.example.com/a"},
		{Title: "Second report", Snippet: "details", Link: "https://journal.example.org/b"},
		{Title: "Third report", Snippet: "details", Link: "https://paper.example.net/c"},
	}
}

func passingValidation() *model.ValidationResult {
	return &model.ValidationResult{Passed: true, Reasons: []string{}, Checks: map[string]float64{}}
}

func supportedAdjudication() *decompose.Adjudication {
	return &decompose.Adjudication{
		Verdict:         "true",
		RelationVerdict: "true",
		Summary:         "Well supported.",
		Confidence:      "high",
		ClaimParse: &model.ClaimParse{
			Entities: []string{"Alice", "Bob"},
			Relation: model.Relation{Predicate: "married", Subject: "Alice", Object: "Bob"},
			Citations: model.Citations{
				Entities: [][]int{{0}, {1}},
				Relation: []int{0, 1},
			},
		},
	}
}

func TestDecide_NoEvidence(t *testing.T) {
	result := testPolicy().Decide(Input{ClaimText: "claim"})
	if result.Verdict != model.VerdictNoContent {
		t.Errorf("Expected no_content, got %s", result.Verdict)
	}
	if result.Verified {
		t.Error("Expected verified=false without evidence")
	}
	if result.Sources.Count != 0 || result.Sources.Links == nil {
		t.Error("Expected empty but non-nil sources")
	}
}

func TestDecide_DecompositionFailed(t *testing.T) {
	result := testPolicy().Decide(Input{
		ClaimText: "claim",
		Evidence:  twoDomainEvidence(),
	})
	if result.Verdict != model.VerdictUncertain {
		t.Errorf("Expected uncertain on failed decomposition, got %s", result.Verdict)
	}
	if result.Summary == "" {
		t.Error("Expected a fallback summary")
	}
	if len(result.TopSources) == 0 {
		t.Error("Expected ranked evidence to back the top sources")
	}
}

func TestDecide_RelationContradictionWins(t *testing.T) {
	adj := supportedAdjudication()
	adj.Verdict = "true"
	adj.RelationVerdict = "false"

	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: adj,
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictFalse {
		t.Errorf("Expected contradiction to win, got %s", result.Verdict)
	}
	if result.Verified {
		t.Error("Expected verified=false")
	}
}

func TestDecide_UnsupportedRelationDefaultsFalse(t *testing.T) {
	adj := supportedAdjudication()
	adj.ClaimParse.Citations.Relation = nil

	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: adj,
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictFalse {
		t.Errorf("Expected unsupported relation to default to false, got %s", result.Verdict)
	}
}

func TestDecide_UnsupportedRelationConfigurable(t *testing.T) {
	cfg := model.DefaultConfig().Policy
	cfg.UnsupportedRelationVerdict = "uncertain"
	p := NewPolicy(cfg, model.DefaultLowPriorityDomains())

	adj := supportedAdjudication()
	adj.ClaimParse.Citations.Relation = []int{}

	result := p.Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: adj,
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictUncertain {
		t.Errorf("Expected configured uncertain verdict, got %s", result.Verdict)
	}
}

func TestDecide_TrueRequiresValidation(t *testing.T) {
	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: supportedAdjudication(),
		Validation:   &model.ValidationResult{Passed: false, Reasons: []string{"bad"}, Checks: map[string]float64{}},
	})
	if result.Verdict != model.VerdictUncertain {
		t.Errorf("Expected downgrade to uncertain, got %s", result.Verdict)
	}
}

func TestDecide_TrueSurvivesAllGates(t *testing.T) {
	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: supportedAdjudication(),
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictTrue {
		t.Errorf("Expected true verdict, got %s; validator reasons %v", result.Verdict, result.Validator.Reasons)
	}
	if !result.Verified {
		t.Error("Expected verified=true")
	}
	if result.Confidence != "high" {
		t.Errorf("Expected reported confidence to pass through, got %s", result.Confidence)
	}
}

func TestDecide_TrueNeedsIndependentDomains(t *testing.T) {
	// Both relation citations resolve to the same host.
	evidence := []model.EvidenceItem{
		{Title: "A", Link: "https://one.example.com/a"},
		{Title: "B", Link: "https://one.example.com/b"},
	}
	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     evidence,
		Adjudication: supportedAdjudication(),
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictUncertain {
		t.Errorf("Expected single-domain support to downgrade, got %s", result.Verdict)
	}
	found := false
	for _, r := range result.Validator.Reasons {
		if r == "Insufficient domain independence for true verdict" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a domain-independence reason on the validator")
	}
}

func TestDecide_SocialDomainsDoNotCountAsIndependent(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Title: "A", Link: "https://news.example.com/a"},
		{Title: "B", Link: "https://twitter.com/post"},
	}
	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     evidence,
		Adjudication: supportedAdjudication(),
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictUncertain {
		t.Errorf("Expected social citation to fail independence, got %s", result.Verdict)
	}
}

func TestDecide_MalformedTopSourcesFallBackToEvidence(t *testing.T) {
	adj := supportedAdjudication()
	adj.TopSources = []model.Source{{Title: "no link"}}

	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: adj,
		Validation:   passingValidation(),
	})
	if len(result.TopSources) != 3 {
		t.Fatalf("Expected 3 evidence-backed sources, got %d", len(result.TopSources))
	}
	if result.TopSources[0].Link != "https://news.example.com/a" {
		t.Errorf("Unexpected first source %q", result.TopSources[0].Link)
	}
}

func TestDecide_MixedPassesThrough(t *testing.T) {
	adj := supportedAdjudication()
	adj.Verdict = "mixed"
	adj.RelationVerdict = "mixed"

	result := testPolicy().Decide(Input{
		ClaimText:    "claim",
		Evidence:     twoDomainEvidence(),
		Adjudication: adj,
		Validation:   passingValidation(),
	})
	if result.Verdict != model.VerdictMixed {
		t.Errorf("Expected mixed to pass through, got %s", result.Verdict)
	}
	if result.Verified {
		t.Error("Expected verified=false for mixed")
	}
}
