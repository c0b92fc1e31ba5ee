package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mlevchuk/veracity/internal/model"
)

// Pooled-anchor relation support: when no single item co-mentions subject
// and object, two separate items can still corroborate the relation if one
// supports each half and both share a contextual anchor (same year, month,
// location, or claim-event tokens), suggesting they describe the same
// real-world occurrence.

// relationPooledAnchor links subject and object transitively through the
// per-entity citation pools and looks for an aligned anchor between any
// subject-linked and object-linked evidence pair.
func (v *Validator) relationPooledAnchor(claimText string, evidence []model.EvidenceItem, parse *model.ClaimParse) bool {
	subjToks := tokenSet(parse.Relation.Subject)
	objToks := tokenSet(parse.Relation.Object)
	if len(subjToks) == 0 || len(objToks) == 0 {
		return false
	}

	subjPool := entityCitationPool(subjToks, parse.Entities, parse.Citations.Entities)
	objPool := entityCitationPool(objToks, parse.Entities, parse.Citations.Entities)
	if len(subjPool) == 0 || len(objPool) == 0 {
		return false
	}

	anchors := newAnchorContext(claimText, evidence, parse)
	for _, si := range subjPool {
		for _, oi := range objPool {
			if anchors.align(si, oi) {
				return true
			}
		}
	}
	return false
}

// entityCitationPool collects the evidence indices cited for every entity
// whose name token-overlaps the given name tokens, best overlap first.
func entityCitationPool(nameToks map[string]bool, entities []string, entityCits [][]int) []int {
	type scored struct {
		overlap int
		idx     int
	}
	var matches []scored
	for i, ent := range entities {
		n := 0
		for t := range tokenSet(ent) {
			if nameToks[t] {
				n++
			}
		}
		if n > 0 {
			matches = append(matches, scored{overlap: n, idx: i})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].overlap > matches[b].overlap
	})

	seen := make(map[int]bool)
	var pool []int
	for _, m := range matches {
		if m.idx >= len(entityCits) {
			continue
		}
		for _, ev := range entityCits[m.idx] {
			if !seen[ev] {
				seen[ev] = true
				pool = append(pool, ev)
			}
		}
	}
	return pool
}

// anchorContext precomputes the claim-level anchors used to align two
// evidence items.
type anchorContext struct {
	evidence    []model.EvidenceItem
	yearToken   string
	monthName   string
	locToks     map[string]bool
	claimToks   map[string]bool
	itemTokens  map[int]map[string]bool
	itemLowered map[int]string
}

func newAnchorContext(claimText string, evidence []model.EvidenceItem, parse *model.ClaimParse) *anchorContext {
	c := &anchorContext{
		evidence:    evidence,
		monthName:   monthNameOf(parse.Timeframe.Month),
		locToks:     tokenSet(parse.Location),
		claimToks:   tokenSet(claimText),
		itemTokens:  make(map[int]map[string]bool),
		itemLowered: make(map[int]string),
	}
	if parse.Timeframe.Year != nil {
		c.yearToken = fmt.Sprintf("%d", *parse.Timeframe.Year)
	}
	return c
}

func (c *anchorContext) tokens(i int) map[string]bool {
	if toks, ok := c.itemTokens[i]; ok {
		return toks
	}
	toks := tokenSet(evidenceText(c.evidence, i))
	c.itemTokens[i] = toks
	return toks
}

func (c *anchorContext) lowered(i int) string {
	if s, ok := c.itemLowered[i]; ok {
		return s
	}
	s := strings.ToLower(evidenceText(c.evidence, i))
	c.itemLowered[i] = s
	return s
}

func (c *anchorContext) hasYear(i int) bool {
	return c.yearToken != "" && c.tokens(i)[c.yearToken]
}

func (c *anchorContext) hasMonth(i int) bool {
	return c.monthName != "" && strings.Contains(c.lowered(i), c.monthName)
}

func (c *anchorContext) hasLocation(i int) bool {
	return len(c.locToks) > 0 && intersects(c.locToks, c.tokens(i))
}

func (c *anchorContext) eventOverlap(i, j int) bool {
	return intersects(c.claimToks, c.tokens(i)) && intersects(c.claimToks, c.tokens(j))
}

// align reports whether two items share at least one anchor.
func (c *anchorContext) align(i, j int) bool {
	if c.hasYear(i) && c.hasYear(j) {
		return true
	}
	if c.hasMonth(i) && c.hasMonth(j) {
		return true
	}
	if c.hasLocation(i) && c.hasLocation(j) {
		return true
	}
	return c.eventOverlap(i, j)
}
