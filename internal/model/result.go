package model

// Verdict is the terminal adjudication outcome for a claim.
type Verdict string

const (
	VerdictTrue      Verdict = "true"
	VerdictFalse     Verdict = "false"
	VerdictMixed     Verdict = "mixed"
	VerdictUncertain Verdict = "uncertain"
	VerdictError     Verdict = "error"
	VerdictNoContent Verdict = "no_content"
)

// ParseVerdict normalizes a free-text verdict string. Unknown values map
// to uncertain: the policy layer never trusts an unrecognized label.
func ParseVerdict(s string) Verdict {
	switch Verdict(s) {
	case VerdictTrue, VerdictFalse, VerdictMixed, VerdictUncertain, VerdictError, VerdictNoContent:
		return Verdict(s)
	default:
		return VerdictUncertain
	}
}

// ValidationResult is the deterministic audit of a claim decomposition.
type ValidationResult struct {
	Passed  bool               `json:"passed"`
	Reasons []string           `json:"reasons"`
	Checks  map[string]float64 `json:"checks"`
}

// Named sub-checks recorded in ValidationResult.Checks. Boolean checks use
// 1/0; entity_overlap_score is a 0..1 fraction and never gates Passed.
const (
	CheckEntitiesCitations    = "entities_citations"
	CheckRolesCitations       = "roles_citations"
	CheckTimeframeCitations   = "timeframe_citations"
	CheckLocationCitations    = "location_citations"
	CheckLocationTokenMatch   = "location_token_match"
	CheckRelationComention    = "relation_comention"
	CheckRelationPooledAnchor = "relation_pooled_anchor"
	CheckTimeframeMatch       = "timeframe_match"
	CheckEntityOverlapScore   = "entity_overlap_score"
)

// Bool reads a boolean sub-check.
func (v *ValidationResult) Bool(name string) bool {
	if v == nil || v.Checks == nil {
		return false
	}
	return v.Checks[name] >= 1
}

// SetBool records a boolean sub-check.
func (v *ValidationResult) SetBool(name string, ok bool) {
	if v.Checks == nil {
		v.Checks = make(map[string]float64)
	}
	if ok {
		v.Checks[name] = 1
	} else {
		v.Checks[name] = 0
	}
}

// Fail records a failed check with a human-readable reason.
func (v *ValidationResult) Fail(name, reason string) {
	v.SetBool(name, false)
	v.Passed = false
	v.Reasons = append(v.Reasons, reason)
}

// ErrorDetails carries the failure context of an error-verdict result.
type ErrorDetails struct {
	Error        string `json:"error"`
	ClaimContext string `json:"claim_context,omitempty"`
	ClaimDate    string `json:"claim_date,omitempty"`
}

// VerificationResult is the engine's final output record. The JSON field
// names are a hard contract: downstream formatters and stores zip on them.
type VerificationResult struct {
	Verified         bool              `json:"verified"`
	Verdict          Verdict           `json:"verdict"`
	Message          string            `json:"message"`
	Summary          string            `json:"summary,omitempty"`
	Confidence       string            `json:"confidence,omitempty"`
	Reasoning        string            `json:"reasoning,omitempty"`
	Sources          SourceList        `json:"sources"`
	TopSources       []Source          `json:"top_sources,omitempty"`
	ClaimText        string            `json:"claim_text"`
	VerificationDate string            `json:"verification_date"`
	Validator        *ValidationResult `json:"validator,omitempty"`
	Details          *ErrorDetails     `json:"details,omitempty"`
}
