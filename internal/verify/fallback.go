package verify

import (
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
)

// Keyword fallback: when the model is unavailable, verdicts are mined
// from the fact-check titles and snippets themselves. Negative indicators
// are checked first; fact-check headlines that debunk a claim usually
// restate it before saying "false".
var (
	falseIndicators     = []string{"false", "misleading", "incorrect", "debunked", "not true", "fake", "hoax"}
	trueIndicators      = []string{"true", "accurate", "correct", "verified", "confirmed"}
	mixedIndicators     = []string{"partially", "mixed", "somewhat", "half"}
	uncertainIndicators = []string{"unverified", "unproven", "uncertain", "disputed"}
)

// verdictFromContent extracts a verdict signal from one evidence item's
// text, or uncertain when nothing matches.
func verdictFromContent(content string) model.Verdict {
	lower := strings.ToLower(content)
	switch {
	case containsAny(lower, falseIndicators):
		return model.VerdictFalse
	case containsAny(lower, trueIndicators):
		return model.VerdictTrue
	case containsAny(lower, mixedIndicators):
		return model.VerdictMixed
	case containsAny(lower, uncertainIndicators):
		return model.VerdictUncertain
	default:
		return model.VerdictUncertain
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// fallbackAnalyze builds a conservative result from evidence keywords
// alone. Any false signal wins; true requires unanimity among the items
// that signaled anything at all.
func fallbackAnalyze(claim model.ClaimInput, evidence []model.EvidenceItem) *model.VerificationResult {
	now := time.Now().UTC().Format(time.RFC3339)
	if len(evidence) == 0 {
		return &model.VerificationResult{
			Verdict:          model.VerdictNoContent,
			Message:          "No relevant evidence found for this claim.",
			Confidence:       "low",
			Reasoning:        "No reliable sources found",
			Sources:          model.SourceListOf(nil, 0),
			ClaimText:        claim.Text(),
			VerificationDate: now,
		}
	}

	counts := map[model.Verdict]int{}
	for _, ev := range evidence {
		counts[verdictFromContent(ev.Text())]++
	}

	var verdict model.Verdict
	switch {
	case counts[model.VerdictFalse] > 0:
		verdict = model.VerdictFalse
	case counts[model.VerdictMixed] > 0:
		verdict = model.VerdictMixed
	case counts[model.VerdictTrue] > 0 && counts[model.VerdictTrue] == len(evidence):
		verdict = model.VerdictTrue
	default:
		verdict = model.VerdictUncertain
	}

	return &model.VerificationResult{
		Verified:         verdict == model.VerdictTrue,
		Verdict:          verdict,
		Message:          "Keyword analysis of fact-checking sources; full analysis was unavailable.",
		Confidence:       "low",
		Reasoning:        "Verdict mined from source titles and snippets",
		Sources:          model.SourceListOf(evidence, 3),
		TopSources:       model.TopSources(evidence, 3),
		ClaimText:        claim.Text(),
		VerificationDate: now,
	}
}
