package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mlevchuk/veracity/internal/model"
)

const titleDedupPrefix = 80

// Ranker scores and filters evidence against a claim. Relation checks work
// best on article pages, so social/UGC and video-platform hosts are
// downranked rather than dropped.
type Ranker struct {
	downrankFactor float64
	lowPriority    map[string]bool
}

// NewRanker builds a ranker from config. Zero values fall back to defaults.
func NewRanker(cfg model.RankConfig) *Ranker {
	factor := cfg.DownrankFactor
	if factor <= 0 || factor > 1 {
		factor = 0.6
	}
	domains := cfg.LowPriorityDomains
	if len(domains) == 0 {
		domains = model.DefaultLowPriorityDomains()
	}
	low := make(map[string]bool, len(domains))
	for _, d := range domains {
		low[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &Ranker{downrankFactor: factor, lowPriority: low}
}

// LowPriority reports whether a URL's host is in the downranked set.
func (r *Ranker) LowPriority(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	return r.lowPriority[strings.ToLower(u.Host)]
}

// Score computes |claim_tokens ∩ evidence_tokens| / |claim_tokens| over the
// item's title, snippet and source text.
func (r *Ranker) Score(claimText string, ev model.EvidenceItem) float64 {
	claim := TokenSet(claimText)
	if len(claim) == 0 {
		return 0
	}
	evText := strings.Join([]string{ev.Title, ev.Snippet, ev.Source}, " ")
	evTokens := TokenSet(evText)
	if len(evTokens) == 0 {
		return 0
	}
	return float64(Overlap(claim, evTokens)) / float64(len(claim))
}

// Rank scores, sorts, deduplicates, and truncates evidence to topK.
// Deduplication is by exact URL and by normalized title prefix; the first
// (highest-scored) occurrence wins. Empty claim text yields zero scores for
// every item, so input order is preserved through the stable sort.
func (r *Ranker) Rank(evidence []model.EvidenceItem, claimText string, topK int) []model.EvidenceItem {
	if topK <= 0 {
		topK = 12
	}
	if len(evidence) == 0 {
		return nil
	}

	type scored struct {
		score float64
		idx   int
		ev    model.EvidenceItem
	}
	items := make([]scored, 0, len(evidence))
	for i, ev := range evidence {
		s := r.Score(claimText, ev)
		if r.LowPriority(ev.Link) {
			s *= r.downrankFactor
		}
		items = append(items, scored{score: s, idx: i, ev: ev})
	}
	// Stable on original index so equal scores keep input order, which
	// also makes ranking a pure function of its inputs.
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].score > items[b].score
	})

	seenURLs := make(map[string]bool)
	seenTitles := make(map[string]bool)
	var out []model.EvidenceItem
	for _, it := range items {
		u := strings.TrimSpace(it.ev.Link)
		title := strings.ToLower(strings.TrimSpace(it.ev.Title))
		titleKey := title
		if len(titleKey) > titleDedupPrefix {
			titleKey = titleKey[:titleDedupPrefix]
		}
		if u != "" && seenURLs[u] {
			continue
		}
		if titleKey != "" && seenTitles[titleKey] {
			continue
		}
		out = append(out, it.ev)
		if u != "" {
			seenURLs[u] = true
		}
		if titleKey != "" {
			seenTitles[titleKey] = true
		}
		if len(out) >= topK {
			break
		}
	}
	return out
}
