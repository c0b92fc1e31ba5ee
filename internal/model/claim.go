package model

// ClaimInput is one item of a verification request. The field names match
// the batch input contract consumed by upstream schedulers.
type ClaimInput struct {
	TextInput    string `json:"text_input"`              // The claim to verify
	ClaimContext string `json:"claim_context,omitempty"` // Where/how the claim circulated
	ClaimDate    string `json:"claim_date,omitempty"`    // Date the claim was made
}

// Text returns the claim text, falling back to the context when the
// input carries no text of its own.
func (c ClaimInput) Text() string {
	if c.TextInput != "" {
		return c.TextInput
	}
	return c.ClaimContext
}

// Relation is the single subject-predicate-object assertion at the heart
// of a decomposed claim.
type Relation struct {
	Predicate string `json:"predicate"`
	Subject   string `json:"subject"`
	Object    string `json:"object"`
}

// Timeframe is the asserted time of the claimed event. Zero pointer means
// the claim does not assert that component.
type Timeframe struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
}

// Citations holds per-fact evidence indices. Indices point into the
// evidence slice supplied to the decomposition call. Entities and roles
// carry one index list per declared item.
type Citations struct {
	Entities  [][]int `json:"entities"`
	Roles     [][]int `json:"roles"`
	Relation  []int   `json:"relation"`
	Timeframe []int   `json:"timeframe"`
	Location  []int   `json:"location"`
}

// ClaimParse is the structured decomposition of a claim produced by the
// decomposer. Immutable once parsed; consumed only by the validator.
type ClaimParse struct {
	Entities  []string  `json:"entities"`
	Roles     []string  `json:"roles"`
	Relation  Relation  `json:"relation"`
	Timeframe Timeframe `json:"timeframe"`
	Location  string    `json:"location"`
	Citations Citations `json:"citations"`
}

// HasTimeframe reports whether the parse asserts any timeframe component.
func (p *ClaimParse) HasTimeframe() bool {
	return p.Timeframe.Year != nil || p.Timeframe.Month != nil
}

// ExtractedClaim is a checkable sentence pulled from raw content.
// Heuristic names the extraction rule that surfaced it.
type ExtractedClaim struct {
	Text      string `json:"text"`
	Heuristic string `json:"heuristic,omitempty"`
	Sentence  int    `json:"sentence,omitempty"`
}
