package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mlevchuk/veracity/internal/llm"
	"github.com/mlevchuk/veracity/internal/model"
)

// Adjudication is the structured model output for one claim: a raw verdict
// opinion plus the claim decomposition the validator audits.
type Adjudication struct {
	Verdict         string            `json:"verdict"`
	RelationVerdict string            `json:"relation_verdict"`
	Summary         string            `json:"summary"`
	Confidence      string            `json:"confidence,omitempty"`
	Reasoning       string            `json:"reasoning,omitempty"`
	TopSources      []model.Source    `json:"top_sources"`
	ClaimParse      *model.ClaimParse `json:"claim_parse"`
}

// Decomposer wraps a single provider call with a rigid instruction
// contract and defensive parsing. A nil return always means
// "decomposition failed", never an implicit verdict.
type Decomposer struct {
	provider llm.Provider
	verbose  bool
}

// NewDecomposer creates a decomposer over the given provider. The provider
// may be nil (LLM disabled); Decompose then returns nil for every claim.
func NewDecomposer(provider llm.Provider, verbose bool) *Decomposer {
	return &Decomposer{provider: provider, verbose: verbose}
}

// Decompose asks the model for a structured parse of the claim against the
// supplied evidence. Returns nil on any provider or parse failure.
func (d *Decomposer) Decompose(ctx context.Context, claimText, claimDate string, evidence []model.EvidenceItem) *Adjudication {
	if d.provider == nil {
		return nil
	}

	prompt := BuildPrompt(claimText, claimDate, evidence)
	text, err := d.provider.Generate(ctx, prompt)
	if err != nil {
		if d.verbose {
			fmt.Fprintf(os.Stderr, "decompose: provider error: %v\n", err)
		}
		return nil
	}

	var adj Adjudication
	if err := llm.ExtractJSON(text, &adj); err != nil {
		if d.verbose {
			fmt.Fprintf(os.Stderr, "decompose: %v\n", err)
		}
		return nil
	}
	Normalize(&adj)
	return &adj
}

// Normalize lowercases verdicts and fills contract defaults so downstream
// checks can index safely. A missing relation_verdict inherits the base
// verdict, matching the adjudication contract.
func Normalize(adj *Adjudication) {
	adj.Verdict = strings.ToLower(strings.TrimSpace(adj.Verdict))
	if adj.Verdict == "" {
		adj.Verdict = string(model.VerdictUncertain)
	}
	adj.RelationVerdict = strings.ToLower(strings.TrimSpace(adj.RelationVerdict))
	if adj.RelationVerdict == "" {
		adj.RelationVerdict = adj.Verdict
	}
	adj.Summary = llm.StripFences(adj.Summary)
	if len(adj.TopSources) > 3 {
		adj.TopSources = adj.TopSources[:3]
	}
}

// BuildPrompt constructs the structured-adjudication instruction. The model
// may cite only the provided evidence items, by index, and must return the
// compact JSON object the engine parses.
func BuildPrompt(claimText, claimDate string, evidence []model.EvidenceItem) string {
	var b strings.Builder
	b.WriteString(`You are a fact-checking assistant. Use the provided evidence items (title, link, date, source, snippet) to evaluate the FULL claim text.
The claim can include: event/context, place, timeframe, actors/entities, quantities, and relations/attribution. You may use only the provided evidence items.
Respond STRICTLY as compact JSON with keys:
  - verdict: one of 'true' | 'false' | 'uncertain'
  - relation_verdict: one of 'true' | 'false' | 'uncertain' (whether the stated relation holds)
  - summary: <= 2 sentences, plain text
  - top_sources: array of up to 3 objects {title, link}
  - claim_parse: {
      entities: array of strings,
      roles: array of strings,
      relation: { predicate: string, subject: string, object: string },
      timeframe: { year: number|null, month: number|null },
      location: string|null,
      citations: {
        entities: array of arrays of evidence indices (per entity),
        roles: array of arrays of evidence indices (per role),
        relation: array of evidence indices supporting subject+predicate+object together,
        timeframe: array of evidence indices supporting the timeframe,
        location: array of evidence indices supporting the location
      }
    }
Rules:
  - verdict 'true' ONLY if evidence supports ALL key parts: event/context, place, timeframe, AND any stated relation.
  - relation_verdict 'false' if the evidence supports a different relation and none supports the claimed relation.
  - verdict 'false' if relation_verdict is 'false' or if place/time contradicts the claim without supporting evidence.
  - 'uncertain' if ANY extracted part in claim_parse has no supporting citations.
  - relation consistency: at least one cited evidence item MUST co-mention subject and object tokens with the predicate.
Do not include code fences or extra text; return only the JSON object.

`)
	fmt.Fprintf(&b, "Claim text: %s\n", claimText)
	fmt.Fprintf(&b, "Claim date: %s\n", claimDate)
	b.WriteString("Evidence:\n")
	b.WriteString(FormatEvidence(evidence))
	return b.String()
}

// FormatEvidence renders evidence as an indexed JSON array so citation
// indices in the response are unambiguous.
func FormatEvidence(evidence []model.EvidenceItem) string {
	type indexed struct {
		Index int `json:"index"`
		model.EvidenceItem
	}
	items := make([]indexed, len(evidence))
	for i, ev := range evidence {
		items[i] = indexed{Index: i, EvidenceItem: ev}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
