// Package validate audits claim decompositions against their cited
// evidence. Every check is deterministic and independent of the model that
// produced the parse; this package is the correctness backstop that keeps
// a plausible-sounding decomposition from becoming an unsupported verdict.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mlevchuk/veracity/internal/model"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]{3,}`)

// tokenSet extracts lowercase alphanumeric tokens of length >= 3. Unlike
// the ranker, stopwords are kept: short function words rarely appear in
// subject/object names, and dropping them here would weaken co-mention.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		set[t] = true
	}
	return set
}

func intersects(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for t := range a {
		if b[t] {
			return true
		}
	}
	return false
}

// Validator runs the deterministic citation audit.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// evidenceText returns the title+snippet text for a cited index, or "" for
// out-of-range indices (the model is not trusted to cite valid indices).
func evidenceText(evidence []model.EvidenceItem, i int) string {
	if i < 0 || i >= len(evidence) {
		return ""
	}
	return evidence[i].Text()
}

// fullEvidenceText additionally includes date, source and link, used for
// timeframe matching where the date often lives outside title/snippet.
func fullEvidenceText(evidence []model.EvidenceItem, i int) string {
	if i < 0 || i >= len(evidence) {
		return ""
	}
	ev := evidence[i]
	parts := make([]string, 0, 5)
	for _, s := range []string{ev.Title, ev.Snippet, ev.Date, ev.Source, ev.Link} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Validate audits a claim parse against the evidence it cites. A nil parse
// fails outright: the decomposer produced nothing auditable.
func (v *Validator) Validate(claimText string, evidence []model.EvidenceItem, parse *model.ClaimParse) *model.ValidationResult {
	result := &model.ValidationResult{
		Passed:  true,
		Reasons: []string{},
		Checks:  map[string]float64{},
	}
	if parse == nil {
		result.Passed = false
		result.Reasons = append(result.Reasons, "No claim parse to validate")
		return result
	}
	cits := parse.Citations

	// 1) Every declared entity and role needs a non-empty citation list.
	v.checkItemCitations(result, model.CheckEntitiesCitations, "entities", parse.Entities, cits.Entities)
	v.checkItemCitations(result, model.CheckRolesCitations, "roles", parse.Roles, cits.Roles)

	// 2) Timeframe and location citations must exist when asserted.
	if parse.HasTimeframe() {
		ok := len(cits.Timeframe) > 0
		result.SetBool(model.CheckTimeframeCitations, ok)
		if !ok {
			result.Fail(model.CheckTimeframeCitations, "Missing citations for timeframe")
		}
	}
	if parse.Location != "" {
		ok := len(cits.Location) > 0
		result.SetBool(model.CheckLocationCitations, ok)
		if !ok {
			result.Fail(model.CheckLocationCitations, "Missing citations for location")
		}
	}

	// 2b) Cited location must actually appear in at least one cited item.
	if parse.Location != "" && len(cits.Location) > 0 {
		locToks := tokenSet(parse.Location)
		ok := false
		for _, i := range cits.Location {
			if len(locToks) > 0 && intersects(locToks, tokenSet(evidenceText(evidence, i))) {
				ok = true
				break
			}
		}
		result.SetBool(model.CheckLocationTokenMatch, ok)
		if !ok {
			result.Fail(model.CheckLocationTokenMatch, "Location tokens not found in cited items")
		}
	}

	// 3) Relation support: co-mention of subject and object in one cited
	// item, with pooled anchors as the fallback.
	comention := v.relationComention(evidence, parse)
	result.SetBool(model.CheckRelationComention, comention)
	pooled := false
	if !comention {
		pooled = v.relationPooledAnchor(claimText, evidence, parse)
	}
	result.SetBool(model.CheckRelationPooledAnchor, pooled)
	if !comention && !pooled {
		result.Passed = false
		result.Reasons = append(result.Reasons, "Relation not supported by co-mention or pooled anchors")
	}

	// 4) Informational: fraction of entity-cited items sharing a claim token.
	result.Checks[model.CheckEntityOverlapScore] = v.entityOverlapScore(claimText, evidence, cits.Entities)

	// 5) Asserted year (and optionally month) must appear in cited items.
	ok := v.timeframeMatch(evidence, parse)
	result.SetBool(model.CheckTimeframeMatch, ok)
	if !ok {
		result.Fail(model.CheckTimeframeMatch, "Timeframe year not supported in cited items")
	}

	return result
}

// checkItemCitations verifies a one-citation-list-per-item invariant:
// lengths match and no list is empty. Empty declarations pass vacuously.
func (v *Validator) checkItemCitations(result *model.ValidationResult, check, label string, items []string, cits [][]int) {
	ok := true
	if len(items) > 0 {
		if len(cits) != len(items) {
			ok = false
		} else {
			for _, list := range cits {
				if len(list) == 0 {
					ok = false
					break
				}
			}
		}
	}
	result.SetBool(check, ok)
	if !ok {
		result.Fail(check, fmt.Sprintf("Missing citations for %s", label))
	}
}

// relationComention checks that at least one relation-cited item contains
// tokens from both the subject and the object. This is the strongest
// signal against plausible-but-unsupported relations.
func (v *Validator) relationComention(evidence []model.EvidenceItem, parse *model.ClaimParse) bool {
	subjToks := tokenSet(parse.Relation.Subject)
	objToks := tokenSet(parse.Relation.Object)
	if len(subjToks) == 0 || len(objToks) == 0 {
		return false
	}
	for _, idx := range parse.Citations.Relation {
		itemToks := tokenSet(evidenceText(evidence, idx))
		if intersects(subjToks, itemToks) && intersects(objToks, itemToks) {
			return true
		}
	}
	return false
}

// entityOverlapScore is the fraction of entity-cited evidence items whose
// text shares at least one token with the claim. Informational only.
func (v *Validator) entityOverlapScore(claimText string, evidence []model.EvidenceItem, entityCits [][]int) float64 {
	claimToks := tokenSet(claimText)
	cited := make(map[int]bool)
	for _, list := range entityCits {
		for _, i := range list {
			cited[i] = true
		}
	}
	if len(cited) == 0 {
		return 0
	}
	hits := 0
	for i := range cited {
		if intersects(claimToks, tokenSet(evidenceText(evidence, i))) {
			hits++
		}
	}
	return float64(hits) / float64(len(cited))
}

// timeframeMatch requires the asserted year to appear as a whole token in
// at least one timeframe-cited item. When the year is absent but a month
// is asserted, the month name can rescue the check: the year is the harder
// constraint, so a year hit alone always suffices.
func (v *Validator) timeframeMatch(evidence []model.EvidenceItem, parse *model.ClaimParse) bool {
	if parse.Timeframe.Year == nil {
		return true
	}
	year := fmt.Sprintf("%d", *parse.Timeframe.Year)
	monthName := monthNameOf(parse.Timeframe.Month)
	for _, i := range parse.Citations.Timeframe {
		text := fullEvidenceText(evidence, i)
		if text == "" {
			continue
		}
		if tokenSet(text)[year] {
			return true
		}
		if monthName != "" && strings.Contains(strings.ToLower(text), monthName) {
			return true
		}
	}
	return false
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

func monthNameOf(month *int) string {
	if month == nil || *month < 1 || *month > 12 {
		return ""
	}
	return monthNames[*month-1]
}
