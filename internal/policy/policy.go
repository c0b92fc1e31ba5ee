// Package policy maps a claim decomposition and its validation audit onto
// the final verdict record. Decisions here are pure and deterministic so
// the same adjudication always yields the same record.
package policy

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/decompose"
	"github.com/mlevchuk/veracity/internal/model"
)

// Input is everything the policy considers for one claim.
type Input struct {
	ClaimText    string
	ClaimDate    string
	Evidence     []model.EvidenceItem    // ranked, deduplicated
	Adjudication *decompose.Adjudication // nil when decomposition failed
	Validation   *model.ValidationResult // nil when the audit was not run
}

// Policy holds the knobs that shape verdict resolution.
type Policy struct {
	cfg         model.PolicyConfig
	lowPriority map[string]bool
}

// NewPolicy creates a policy. The low-priority domains are excluded when
// counting independent supporting domains.
func NewPolicy(cfg model.PolicyConfig, lowPriorityDomains []string) *Policy {
	lp := make(map[string]bool, len(lowPriorityDomains))
	for _, d := range lowPriorityDomains {
		lp[strings.ToLower(d)] = true
	}
	if cfg.UnsupportedRelationVerdict == "" {
		cfg.UnsupportedRelationVerdict = "false"
	}
	if cfg.MinIndependentDomains <= 0 {
		cfg.MinIndependentDomains = 2
	}
	return &Policy{cfg: cfg, lowPriority: lp}
}

// Decide resolves the final verdict record for one claim.
//
// Resolution order: no evidence wins over everything, a contradicted or
// unsupported relation wins over the base verdict, and "true" survives
// only when the audit passed and support spans independent domains.
// A true verdict is only ever downgraded, never upgraded.
func (p *Policy) Decide(in Input) *model.VerificationResult {
	now := time.Now().UTC().Format(time.RFC3339)

	if len(in.Evidence) == 0 {
		return &model.VerificationResult{
			Verdict:          model.VerdictNoContent,
			Message:          baseMessage(model.VerdictNoContent),
			Summary:          fallbackSummary(model.VerdictNoContent, in.ClaimText, in.ClaimDate),
			Confidence:       "low",
			Sources:          model.SourceListOf(nil, 0),
			ClaimText:        in.ClaimText,
			VerificationDate: now,
			Validator:        in.Validation,
		}
	}

	adj := in.Adjudication
	if adj == nil {
		return &model.VerificationResult{
			Verdict:          model.VerdictUncertain,
			Message:          baseMessage(model.VerdictUncertain),
			Summary:          fallbackSummary(model.VerdictUncertain, in.ClaimText, in.ClaimDate),
			Confidence:       "low",
			Sources:          model.SourceListOf(in.Evidence, 3),
			TopSources:       model.TopSources(in.Evidence, 3),
			ClaimText:        in.ClaimText,
			VerificationDate: now,
			Validator:        in.Validation,
		}
	}

	validation := in.Validation
	if validation == nil {
		validation = &model.ValidationResult{Reasons: []string{}, Checks: map[string]float64{}}
	}

	base := model.ParseVerdict(adj.Verdict)
	relation := model.ParseVerdict(adj.RelationVerdict)
	relCits := relationCitations(adj.ClaimParse)

	var verdict model.Verdict
	var reasoning string
	switch {
	case relation == model.VerdictFalse:
		verdict = model.VerdictFalse
		reasoning = "The claimed relation is contradicted by the cited evidence."
	case len(relCits) == 0:
		// Evidence exists but none of it was cited for the core relation.
		verdict = model.ParseVerdict(p.cfg.UnsupportedRelationVerdict)
		reasoning = "Evidence was found but none of it supports the claimed relation."
	default:
		verdict = base
	}

	if verdict == model.VerdictTrue {
		verdict, reasoning = p.gateTrue(in, adj, validation, relCits)
	}

	sources := adj.TopSources
	if !wellFormed(sources) {
		sources = model.TopSources(in.Evidence, 3)
	}
	summary := adj.Summary
	if summary == "" {
		summary = fallbackSummary(verdict, in.ClaimText, in.ClaimDate)
	}
	if reasoning == "" {
		reasoning = adj.Reasoning
	}

	return &model.VerificationResult{
		Verified:         verdict == model.VerdictTrue,
		Verdict:          verdict,
		Message:          baseMessage(verdict),
		Summary:          summary,
		Confidence:       confidence(adj.Confidence, verdict),
		Reasoning:        reasoning,
		Sources:          model.SourceListOf(in.Evidence, 3),
		TopSources:       sources,
		ClaimText:        in.ClaimText,
		VerificationDate: now,
		Validator:        validation,
	}
}

// gateTrue applies the conservative-true checks. Each failed gate folds
// the verdict to uncertain and records why in the validation reasons.
func (p *Policy) gateTrue(in Input, adj *decompose.Adjudication, validation *model.ValidationResult, relCits []int) (model.Verdict, string) {
	if !validation.Passed {
		validation.Reasons = append(validation.Reasons, "Validation failed for true verdict")
		return model.VerdictUncertain, "The decomposition did not survive the citation audit."
	}
	min := p.cfg.MinIndependentDomains
	if p.countRelationDomains(in.Evidence, relCits) < min {
		validation.Reasons = append(validation.Reasons, "Insufficient domain independence for true verdict")
		return model.VerdictUncertain, "The claimed relation is supported from too few independent domains."
	}
	if p.countReputableSourceDomains(adj, in.Evidence) < min {
		validation.Reasons = append(validation.Reasons, "Too few reputable sources for true verdict")
		return model.VerdictUncertain, "Too few reputable sources corroborate the claim."
	}
	if countCitedDomains(in.Evidence, adj.ClaimParse) < min {
		validation.Reasons = append(validation.Reasons, "Insufficient domain independence for true verdict")
		return model.VerdictUncertain, "The cited evidence spans too few distinct domains."
	}
	return model.VerdictTrue, ""
}

// countRelationDomains counts distinct non-low-priority domains among the
// relation-cited evidence items.
func (p *Policy) countRelationDomains(evidence []model.EvidenceItem, relCits []int) int {
	domains := make(map[string]bool)
	for _, i := range relCits {
		if i < 0 || i >= len(evidence) {
			continue
		}
		d := strings.ToLower(evidence[i].Domain())
		if d != "" && !p.lowPriority[d] {
			domains[d] = true
		}
	}
	return len(domains)
}

// countReputableSourceDomains counts distinct non-low-priority domains
// among the user-facing top sources.
func (p *Policy) countReputableSourceDomains(adj *decompose.Adjudication, evidence []model.EvidenceItem) int {
	sources := adj.TopSources
	if !wellFormed(sources) {
		sources = model.TopSources(evidence, 3)
	}
	domains := make(map[string]bool)
	for _, s := range sources {
		u, err := url.Parse(s.Link)
		if err != nil {
			continue
		}
		d := strings.ToLower(u.Host)
		if d != "" && !p.lowPriority[d] {
			domains[d] = true
		}
	}
	return len(domains)
}

// countCitedDomains counts distinct domains across the union of every
// citation pool, low-priority included. This is the broad independence
// check: all support concentrated on one site is not independent.
func countCitedDomains(evidence []model.EvidenceItem, parse *model.ClaimParse) int {
	if parse == nil {
		return 0
	}
	cited := make(map[int]bool)
	for _, list := range parse.Citations.Entities {
		for _, i := range list {
			cited[i] = true
		}
	}
	for _, list := range parse.Citations.Roles {
		for _, i := range list {
			cited[i] = true
		}
	}
	for _, set := range [][]int{parse.Citations.Relation, parse.Citations.Timeframe, parse.Citations.Location} {
		for _, i := range set {
			cited[i] = true
		}
	}
	domains := make(map[string]bool)
	for i := range cited {
		if i < 0 || i >= len(evidence) {
			continue
		}
		if d := strings.ToLower(evidence[i].Domain()); d != "" {
			domains[d] = true
		}
	}
	return len(domains)
}

func relationCitations(parse *model.ClaimParse) []int {
	if parse == nil {
		return nil
	}
	return parse.Citations.Relation
}

// wellFormed accepts LLM-provided top sources only when every entry
// carries a link; otherwise the ranked evidence stands in.
func wellFormed(sources []model.Source) bool {
	if len(sources) == 0 {
		return false
	}
	for _, s := range sources {
		if s.Link == "" {
			return false
		}
	}
	return true
}

func confidence(raw string, verdict model.Verdict) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	case "low":
		return "low"
	}
	if verdict == model.VerdictUncertain || verdict == model.VerdictNoContent {
		return "low"
	}
	return "medium"
}

func baseMessage(verdict model.Verdict) string {
	switch verdict {
	case model.VerdictTrue:
		return "This claim appears to be TRUE based on the collected evidence."
	case model.VerdictFalse:
		return "This claim appears to be FALSE based on the collected evidence."
	case model.VerdictMixed:
		return "This claim has MIXED evidence - some parts are supported, others are not."
	case model.VerdictUncertain:
		return "This claim is UNCERTAIN - insufficient evidence to determine accuracy."
	case model.VerdictNoContent:
		return "No relevant evidence found for this claim."
	case model.VerdictError:
		return "Verification failed before a verdict could be reached."
	default:
		return "Unable to determine claim accuracy."
	}
}

func fallbackSummary(verdict model.Verdict, claimText, claimDate string) string {
	subject := claimText
	if claimDate != "" {
		subject = fmt.Sprintf("%s, %s", claimText, claimDate)
	}
	switch verdict {
	case model.VerdictFalse:
		return fmt.Sprintf("Claim is false. The available evidence does not match %s.", subject)
	case model.VerdictTrue:
		return fmt.Sprintf("Claim is true. The available evidence supports %s.", subject)
	case model.VerdictNoContent:
		return fmt.Sprintf("No evidence was found for %s.", subject)
	default:
		return fmt.Sprintf("Claim is uncertain. Evidence is inconclusive for %s.", subject)
	}
}
